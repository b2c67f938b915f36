package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks the lifecycle of a batch run.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
)

// Job is one batch-processing run over an uploaded file. Once completed,
// TotalRows == CleanRows + QuarantinedRows.
type Job struct {
	ID              uuid.UUID `json:"id"`
	SourceName      string    `json:"source_name"`
	Status          JobStatus `json:"status"`
	ColumnOrder     []string  `json:"column_order"`
	TotalRows       int       `json:"total_rows"`
	CleanRows       int       `json:"clean_rows"`
	QuarantinedRows int       `json:"quarantined_rows"`
	CreatedAt       time.Time `json:"created_at"`
}
