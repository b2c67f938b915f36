package repository

import (
	"context"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/google/uuid"
)

// Store bundles the repositories behind one persistence boundary. WithinTx
// hands callers a Store whose repositories share a single all-or-nothing
// transaction; a batch is never visible as completed with partial writes.
type Store interface {
	Rules() RuleRepository
	Jobs() JobRepository
	Records() RecordRepository
	Logs() LogRepository

	WithinTx(ctx context.Context, fn func(Store) error) error
}

// RuleRepository defines the interface for validation rule operations.
type RuleRepository interface {
	List(ctx context.Context) ([]domain.Rule, error)
	ListActive(ctx context.Context) ([]domain.Rule, error)
	Create(ctx context.Context, rule domain.Rule) (domain.Rule, error)
	Update(ctx context.Context, rule domain.Rule) (domain.Rule, error)
	ReplaceAll(ctx context.Context, rules []domain.Rule) error
}

// JobRepository defines the interface for batch job operations.
type JobRepository interface {
	Create(ctx context.Context, job domain.Job) (domain.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error)
	List(ctx context.Context, limit int) ([]domain.Job, error)
	// LockForUpdate loads a job while holding its row lock for the duration
	// of the surrounding transaction, serializing same-job revalidations.
	LockForUpdate(ctx context.Context, id uuid.UUID) (domain.Job, error)
	UpdateCounts(ctx context.Context, id uuid.UUID, status domain.JobStatus, total, clean, quarantined int) error
}

// RecordRepository defines the interface for the clean and quarantine
// partitions.
type RecordRepository interface {
	Insert(ctx context.Context, partition domain.Partition, record domain.Record) (domain.Record, error)
	GetClean(ctx context.Context, id uuid.UUID) (domain.Record, error)
	GetQuarantined(ctx context.Context, id uuid.UUID) (domain.Record, error)
	ListClean(ctx context.Context, jobID *uuid.UUID, limit int) ([]domain.Record, error)
	ListQuarantined(ctx context.Context, jobID *uuid.UUID) ([]domain.Record, error)
	// ListByJob returns both partitions of a job ordered by row number.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Record, error)
	UpdateQuarantinedRow(ctx context.Context, id uuid.UUID, row domain.Row) (domain.Record, error)
	DeleteQuarantined(ctx context.Context, id uuid.UUID) error
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
}

// LogRepository defines the interface for the validation audit log.
type LogRepository interface {
	Append(ctx context.Context, entry domain.LogEntry) error
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.LogEntry, error)
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
}
