// Package rules implements the validation engine: rule evaluation, rule set
// resolution, and row classification. Everything here is pure and safe for
// concurrent use; persistence and transport live elsewhere.
package rules

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rowguard/rowguard/internal/domain"
)

// Evaluate applies one rule to one value. Malformed values and malformed rule
// definitions fail the rule rather than raising; unrecognized rule kinds pass
// so they never block ingestion.
func Evaluate(value string, rule domain.Rule) bool {
	switch rule.Kind {
	case domain.RuleKindRegex:
		return matchPrefix(rule.Definition, value)
	case domain.RuleKindRange:
		return inRange(rule.Definition, value)
	default:
		return true
	}
}

// matchPrefix matches the pattern against the start of the value. A pattern
// without its own $ anchor passes whenever the value's prefix matches, which
// is the contract rule authors rely on.
func matchPrefix(pattern, value string) bool {
	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// inRange interprets the definition as "<min>-<max>" with inclusive integer
// bounds. Any parse failure, on the bounds or the value, fails the rule.
func inRange(definition, value string) bool {
	lowRaw, highRaw, ok := strings.Cut(definition, "-")
	if !ok {
		return false
	}
	low, err := strconv.Atoi(strings.TrimSpace(lowRaw))
	if err != nil {
		return false
	}
	high, err := strconv.Atoi(strings.TrimSpace(highRaw))
	if err != nil {
		return false
	}
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return v >= low && v <= high
}
