// Package export renders a job's partitioned rows back out as CSV downloads.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/repository"

	"github.com/google/uuid"
)

// Service streams partition contents as CSV.
type Service struct {
	store repository.Store
}

// NewService creates a new export service.
func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// WriteCSV writes every record of one partition of a job to w as CSV and
// returns a suggested filename. Columns follow the job's original header
// order, prefixed with the row number; quarantined exports carry a trailing
// error_reason column. Rows appear in input order.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, jobID uuid.UUID, partition domain.Partition) (string, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return "", err
	}

	records, err := s.store.Records().ListByJob(ctx, job.ID)
	if err != nil {
		return "", err
	}

	writer := csv.NewWriter(w)

	header := append([]string{"row_number"}, job.ColumnOrder...)
	if partition == domain.PartitionQuarantine {
		header = append(header, "error_reason")
	}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, record := range records {
		if record.Partition != partition {
			continue
		}
		line := make([]string, 0, len(header))
		line = append(line, strconv.Itoa(record.RowNumber))
		for _, column := range job.ColumnOrder {
			line = append(line, record.Row[column])
		}
		if partition == domain.PartitionQuarantine {
			line = append(line, record.ErrorReason)
		}
		if err := writer.Write(line); err != nil {
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return fmt.Sprintf("job_%s_%s.csv", job.ID, partition), nil
}
