package repository

import (
	"context"
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/google/uuid"
)

type logRepository struct {
	db DBTX
}

func (r *logRepository) Append(ctx context.Context, entry domain.LogEntry) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO validation_logs (job_id, row_number, column_name, original_value, final_value, rule_applied, status_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.JobID,
		entry.RowNumber,
		entry.ColumnName,
		entry.OriginalValue,
		entry.FinalValue,
		entry.RuleApplied,
		entry.StatusColor,
	)
	if err != nil {
		return fmt.Errorf("failed to append validation log: %w", err)
	}

	return nil
}

// ListByJob returns a deterministic replay of the batch: entries ordered by
// (row_number, insertion id).
func (r *logRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.LogEntry, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, job_id, row_number, column_name, original_value, final_value, rule_applied, status_color, created_at
		 FROM validation_logs
		 WHERE job_id = $1
		 ORDER BY row_number, id`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation logs: %w", err)
	}
	defer rows.Close()

	entries := []domain.LogEntry{}
	for rows.Next() {
		var entry domain.LogEntry
		if scanErr := rows.Scan(
			&entry.ID,
			&entry.JobID,
			&entry.RowNumber,
			&entry.ColumnName,
			&entry.OriginalValue,
			&entry.FinalValue,
			&entry.RuleApplied,
			&entry.StatusColor,
			&entry.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan validation log: %w", scanErr)
		}
		entries = append(entries, entry)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate validation logs: %w", rowsErr)
	}

	return entries, nil
}

func (r *logRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM validation_logs WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to clear validation logs: %w", err)
	}

	return nil
}
