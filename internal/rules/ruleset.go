package rules

import (
	"sort"
	"strings"

	"github.com/rowguard/rowguard/internal/domain"
)

// RuleSet is the effective column to rules mapping applied to one batch. It
// is an immutable snapshot: rule edits after resolution never affect an
// in-flight batch. Columns iterate in sorted order so classification is
// reproducible across runs.
type RuleSet struct {
	columns []string
	rules   map[string][]domain.Rule
}

// Resolve merges system rules with optional per-upload overrides. An override
// with a non-empty definition replaces the system rules for its column; an
// override for an unruled column adds a new rule set. Columns with no rule
// anywhere are absent from the result.
func Resolve(system map[string][]domain.Rule, overrides map[string]domain.Rule) RuleSet {
	effective := make(map[string][]domain.Rule, len(system)+len(overrides))
	for column, columnRules := range system {
		if len(columnRules) == 0 {
			continue
		}
		effective[column] = append([]domain.Rule(nil), columnRules...)
	}
	for column, override := range overrides {
		if strings.TrimSpace(override.Definition) == "" {
			continue
		}
		override.ColumnName = column
		effective[column] = []domain.Rule{override}
	}

	columns := make([]string, 0, len(effective))
	for column := range effective {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	return RuleSet{columns: columns, rules: effective}
}

// GroupByColumn buckets active rules under their column name, the natural
// grouping key for evaluation. Inactive rules are dropped.
func GroupByColumn(all []domain.Rule) map[string][]domain.Rule {
	grouped := make(map[string][]domain.Rule)
	for _, rule := range all {
		if !rule.Active {
			continue
		}
		grouped[rule.ColumnName] = append(grouped[rule.ColumnName], rule)
	}
	return grouped
}

// Columns returns the ruled column names in stable evaluation order.
func (s RuleSet) Columns() []string { return s.columns }

// ForColumn returns the rules for one column, nil when the column is unruled.
func (s RuleSet) ForColumn(column string) []domain.Rule { return s.rules[column] }

// Len reports the number of ruled columns.
func (s RuleSet) Len() int { return len(s.columns) }
