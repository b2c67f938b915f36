// Package revalidation re-runs classification for quarantined records against
// the current active rules, handling the quarantine-to-clean transition and
// the correction workflow.
package revalidation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/ingestion"
	"github.com/rowguard/rowguard/internal/repository"
	"github.com/rowguard/rowguard/internal/rules"

	"github.com/google/uuid"
)

// Service revalidates quarantined records and whole jobs.
type Service struct {
	store repository.Store
}

// NewService creates a new revalidation service.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Row result statuses. "Still invalid" is an outcome, not an error; only
// missing records and storage failures surface as errors.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
)

// RowResult reports the outcome of revalidating one record.
type RowResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// JobResult summarizes a full-job revalidation pass.
type JobResult struct {
	JobID           uuid.UUID        `json:"job_id"`
	TotalRows       int              `json:"total_rows"`
	CleanRows       int              `json:"clean_rows"`
	QuarantinedRows int              `json:"quarantined_rows"`
	Status          domain.JobStatus `json:"status"`
}

// RevalidateRow re-classifies one quarantined record against the current
// active rules. The full stored row is checked, so corrections to any ruled
// column count. A record that already moved to the clean partition is a
// no-op success, which makes repeated calls safe.
func (s *Service) RevalidateRow(ctx context.Context, recordID uuid.UUID) (RowResult, error) {
	var result RowResult

	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		record, err := st.Records().GetQuarantined(ctx, recordID)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if _, cleanErr := st.Records().GetClean(ctx, recordID); cleanErr == nil {
				result = RowResult{Status: StatusSuccess, Message: "record already in clean partition"}
				return nil
			}
			return err
		}

		active, err := st.Rules().ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to snapshot rules: %w", err)
		}
		set := rules.Resolve(rules.GroupByColumn(active), nil)

		verdict, _ := rules.Classify(record.Row, set)
		if !verdict.Valid {
			result = RowResult{
				Status:  StatusInvalid,
				Message: "record still fails active rules",
				Errors:  verdict.FailureReasons,
			}
			return nil
		}

		moved := domain.Record{
			ID:        record.ID,
			JobID:     record.JobID,
			RowNumber: record.RowNumber,
			Row:       record.Row,
		}
		if _, err := st.Records().Insert(ctx, domain.PartitionClean, moved); err != nil {
			return err
		}
		if err := st.Records().DeleteQuarantined(ctx, record.ID); err != nil {
			return err
		}

		entry := domain.LogEntry{
			JobID:         record.JobID,
			RowNumber:     record.RowNumber,
			ColumnName:    "system",
			OriginalValue: record.ErrorReason,
			FinalValue:    "CORRECTED",
			RuleApplied:   "revalidation",
			StatusColor:   domain.StatusGreen,
		}
		if err := st.Logs().Append(ctx, entry); err != nil {
			return err
		}

		result = RowResult{Status: StatusSuccess, Message: "record moved to clean partition"}
		return nil
	})
	if err != nil {
		return RowResult{}, err
	}

	return result, nil
}

// RevalidateJob re-classifies every row of a job, clean and quarantined,
// against the current rule snapshot. Both partitions and the job's logs are
// rebuilt from scratch; original row numbers are preserved so the audit log
// still replays in input order. The job row is locked for the duration, so
// concurrent re-runs on the same job serialize.
func (s *Service) RevalidateJob(ctx context.Context, jobID uuid.UUID) (JobResult, error) {
	var result JobResult

	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		job, err := st.Jobs().LockForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		records, err := st.Records().ListByJob(ctx, job.ID)
		if err != nil {
			return err
		}

		active, err := st.Rules().ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to snapshot rules: %w", err)
		}
		set := rules.Resolve(rules.GroupByColumn(active), nil)

		if err := st.Logs().DeleteByJob(ctx, job.ID); err != nil {
			return err
		}
		if err := st.Records().DeleteByJob(ctx, job.ID); err != nil {
			return err
		}

		var clean, quarantined int
		for _, record := range records {
			placed, err := ingestion.PlaceRow(ctx, st, job.ID, record.RowNumber, record.Row, set)
			if err != nil {
				return err
			}
			if placed == domain.PartitionClean {
				clean++
			} else {
				quarantined++
			}
		}

		if err := st.Jobs().UpdateCounts(ctx, job.ID, domain.JobStatusCompleted, len(records), clean, quarantined); err != nil {
			return err
		}

		result = JobResult{
			JobID:           job.ID,
			TotalRows:       len(records),
			CleanRows:       clean,
			QuarantinedRows: quarantined,
			Status:          domain.JobStatusCompleted,
		}
		return nil
	})
	if err != nil {
		return JobResult{}, err
	}

	return result, nil
}

// CorrectRecord merges corrected field values into a quarantined row without
// revalidating it; callers typically revalidate right after.
func (s *Service) CorrectRecord(ctx context.Context, recordID uuid.UUID, fields map[string]string) (domain.Record, error) {
	var updated domain.Record

	err := s.store.WithinTx(ctx, func(st repository.Store) error {
		record, err := st.Records().GetQuarantined(ctx, recordID)
		if err != nil {
			return err
		}
		if record.Row == nil {
			record.Row = domain.Row{}
		}
		for column, value := range fields {
			record.Row[column] = value
		}

		updated, err = st.Records().UpdateQuarantinedRow(ctx, record.ID, record.Row)
		return err
	})
	if err != nil {
		return domain.Record{}, err
	}

	return updated, nil
}
