package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusColor marks a log entry as a pass or a failure.
type StatusColor string

const (
	StatusGreen StatusColor = "green"
	StatusRed   StatusColor = "red"
)

// LogEntry is one audit record for a batch: one red entry per failing
// (column, rule) pair plus one green summary entry per passing row. Entries
// for a job replay deterministically when ordered by (row_number, id).
type LogEntry struct {
	ID            int64       `json:"id"`
	JobID         uuid.UUID   `json:"job_id"`
	RowNumber     int         `json:"row_number"`
	ColumnName    string      `json:"column_name"`
	OriginalValue string      `json:"original_value"`
	FinalValue    string      `json:"final_value"`
	RuleApplied   string      `json:"rule_applied"`
	StatusColor   StatusColor `json:"status_color"`
	CreatedAt     time.Time   `json:"created_at"`
}
