package domain

// Row is one parsed record keyed by column name. The shared column order of a
// batch lives on the owning Job, so rows stay a plain mapping. Columns absent
// from a row carry no opinion for rules scoped to that column.
type Row map[string]string

// Verdict is the outcome of classifying one row against the effective rule
// set. FailureReasons holds one entry per failing (column, rule) pair in
// evaluation order.
type Verdict struct {
	Valid          bool     `json:"valid"`
	FailureReasons []string `json:"failure_reasons,omitempty"`
	RowNumber      int      `json:"row_number"`
}
