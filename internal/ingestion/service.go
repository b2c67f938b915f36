// Package ingestion drives batch processing: it parses uploaded tabular
// files, classifies every row against the effective rule set, and routes
// rows into the clean or quarantine partition with a full audit trail.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/repository"
	"github.com/rowguard/rowguard/internal/rules"

	"github.com/google/uuid"
)

// Service processes uploaded files into classified jobs.
type Service struct {
	store repository.Store
}

// NewService creates a new ingestion service.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// Request describes one upload.
type Request struct {
	FileName  string
	Overrides map[string]domain.Rule
	Data      io.Reader
}

// Summary reports the outcome of one completed batch.
type Summary struct {
	JobID           uuid.UUID        `json:"job_id"`
	TotalRows       int              `json:"total_rows"`
	CleanRows       int              `json:"clean_rows"`
	QuarantinedRows int              `json:"quarantined_rows"`
	Status          domain.JobStatus `json:"status"`
}

// Process runs one batch. The rule snapshot, job creation, every row
// placement, and the final status update share a single transaction, so a
// mid-batch failure leaves no partial job behind.
func (s *Service) Process(ctx context.Context, req Request) (Summary, error) {
	var summary Summary

	if req.Data == nil {
		return summary, errors.New("data reader is required")
	}
	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return summary, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(payload) == 0 {
		return summary, errors.New("file is empty")
	}

	columns, tableRows, err := parseTable(req.FileName, payload)
	if err != nil {
		return summary, err
	}
	if len(tableRows) == 0 {
		return summary, errors.New("file has no data rows")
	}

	err = s.store.WithinTx(ctx, func(st repository.Store) error {
		active, err := st.Rules().ListActive(ctx)
		if err != nil {
			return fmt.Errorf("failed to snapshot rules: %w", err)
		}
		set := rules.Resolve(rules.GroupByColumn(active), req.Overrides)

		job, err := st.Jobs().Create(ctx, domain.Job{
			SourceName:  req.FileName,
			Status:      domain.JobStatusProcessing,
			ColumnOrder: columns,
		})
		if err != nil {
			return err
		}

		var clean, quarantined int
		for idx, row := range tableRows {
			rowNumber := idx + 1
			placed, err := PlaceRow(ctx, st, job.ID, rowNumber, row, set)
			if err != nil {
				return err
			}
			if placed == domain.PartitionClean {
				clean++
			} else {
				quarantined++
			}
		}

		if err := st.Jobs().UpdateCounts(ctx, job.ID, domain.JobStatusCompleted, len(tableRows), clean, quarantined); err != nil {
			return err
		}

		summary = Summary{
			JobID:           job.ID,
			TotalRows:       len(tableRows),
			CleanRows:       clean,
			QuarantinedRows: quarantined,
			Status:          domain.JobStatusCompleted,
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}

// PlaceRow classifies one numbered row and writes its record and audit
// entries. It is shared with full-job revalidation, which replays the same
// routing against a fresh rule snapshot.
func PlaceRow(ctx context.Context, st repository.Store, jobID uuid.UUID, rowNumber int, row domain.Row, set rules.RuleSet) (domain.Partition, error) {
	verdict, failures := rules.Classify(row, set)
	verdict.RowNumber = rowNumber

	if verdict.Valid {
		record := domain.Record{JobID: jobID, RowNumber: rowNumber, Row: row}
		if _, err := st.Records().Insert(ctx, domain.PartitionClean, record); err != nil {
			return "", fmt.Errorf("row %d: %w", rowNumber, err)
		}
		entry := domain.LogEntry{JobID: jobID, RowNumber: rowNumber, StatusColor: domain.StatusGreen}
		if err := st.Logs().Append(ctx, entry); err != nil {
			return "", fmt.Errorf("row %d: %w", rowNumber, err)
		}
		return domain.PartitionClean, nil
	}

	for _, failure := range failures {
		entry := domain.LogEntry{
			JobID:         jobID,
			RowNumber:     rowNumber,
			ColumnName:    failure.Column,
			OriginalValue: failure.Value,
			RuleApplied:   rules.RuleApplied(failure.Rule),
			StatusColor:   domain.StatusRed,
		}
		if err := st.Logs().Append(ctx, entry); err != nil {
			return "", fmt.Errorf("row %d: %w", rowNumber, err)
		}
	}

	record := domain.Record{
		JobID:       jobID,
		RowNumber:   rowNumber,
		Row:         row,
		ErrorReason: strings.Join(verdict.FailureReasons, "; "),
	}
	if _, err := st.Records().Insert(ctx, domain.PartitionQuarantine, record); err != nil {
		return "", fmt.Errorf("row %d: %w", rowNumber, err)
	}

	return domain.PartitionQuarantine, nil
}

// ParseOverrides decodes the per-upload rule override payload, shaped as
// {"column": {"type": "...", "value": "..."}}. A malformed payload falls back
// to system rules; overrides are a convenience, never a reason to reject an
// upload.
func ParseOverrides(raw string) map[string]domain.Rule {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var decoded map[string]struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil
	}

	overrides := make(map[string]domain.Rule, len(decoded))
	for column, o := range decoded {
		overrides[column] = domain.Rule{
			ColumnName: column,
			Kind:       domain.RuleKind(o.Type),
			Definition: o.Value,
			Active:     true,
		}
	}
	return overrides
}
