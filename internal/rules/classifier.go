package rules

import (
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"
)

// Failure records one failing (column, rule) pair with the offending value.
type Failure struct {
	Column string
	Value  string
	Rule   domain.Rule
}

// Reason renders the human-readable failure reason stored with quarantined
// rows and audit entries.
func (f Failure) Reason() string {
	return fmt.Sprintf("Column '%s' failed %s rule", f.Column, f.Rule.Kind)
}

// RuleApplied renders the rule identity recorded on audit entries.
func RuleApplied(rule domain.Rule) string {
	return fmt.Sprintf("%s:%s", rule.Kind, rule.Definition)
}

// Classify evaluates a row against the effective rule set and returns the
// verdict together with every individual failure behind it. Evaluation does
// not short-circuit: all failing (column, rule) pairs are recorded. Columns
// absent from the row are skipped, and a row with zero applicable rules is
// valid.
func Classify(row domain.Row, set RuleSet) (domain.Verdict, []Failure) {
	var failures []Failure
	for _, column := range set.Columns() {
		value, present := row[column]
		if !present {
			continue
		}
		for _, rule := range set.ForColumn(column) {
			if Evaluate(value, rule) {
				continue
			}
			failures = append(failures, Failure{Column: column, Value: value, Rule: rule})
		}
	}

	verdict := domain.Verdict{Valid: len(failures) == 0}
	for _, failure := range failures {
		verdict.FailureReasons = append(verdict.FailureReasons, failure.Reason())
	}
	return verdict, failures
}
