package domain

import (
	"time"

	"github.com/google/uuid"
)

// Partition names the storage area a classified row was routed to.
type Partition string

const (
	PartitionClean      Partition = "clean"
	PartitionQuarantine Partition = "quarantine"
)

// Record is a row placed into the clean or quarantine partition. The full row
// is kept so quarantined records can be corrected and revalidated against any
// column, not just a fixed projection. ErrorReason concatenates the failure
// reasons for quarantined records.
type Record struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	RowNumber   int       `json:"row_number"`
	Row         Row       `json:"row"`
	ErrorReason string    `json:"error_reason,omitempty"`
	Partition   Partition `json:"partition,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
