package domain

import (
	"time"

	"github.com/google/uuid"
)

// RuleKind tags the validation strategy used to interpret a rule's definition.
// Kinds the evaluator does not recognize pass by policy, so new kinds can be
// introduced without blocking ingestion on older deployments.
type RuleKind string

const (
	RuleKindRegex RuleKind = "regex"
	RuleKindRange RuleKind = "range"
)

// Rule is a single column-scoped validation predicate. All active rules for a
// column must pass for the column to be considered valid on a row.
type Rule struct {
	ID         uuid.UUID `json:"id"`
	ColumnName string    `json:"column_name"`
	Kind       RuleKind  `json:"rule_type"`
	Definition string    `json:"rule_value"`
	Active     bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
