package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type recordRepository struct {
	db DBTX
}

func (r *recordRepository) Insert(ctx context.Context, partition domain.Partition, record domain.Record) (domain.Record, error) {
	// Preserve caller-assigned ids so a record keeps its identity when it
	// moves between partitions.
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Row == nil {
		record.Row = domain.Row{}
	}
	record.Partition = partition

	var err error
	switch partition {
	case domain.PartitionClean:
		err = r.db.QueryRow(
			ctx,
			`INSERT INTO clean_rows (id, job_id, row_number, row_data)
			 VALUES ($1, $2, $3, $4)
			 RETURNING created_at`,
			record.ID,
			record.JobID,
			record.RowNumber,
			record.Row,
		).Scan(&record.CreatedAt)
		record.ErrorReason = ""
	case domain.PartitionQuarantine:
		err = r.db.QueryRow(
			ctx,
			`INSERT INTO quarantine_rows (id, job_id, row_number, row_data, error_reason)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			record.ID,
			record.JobID,
			record.RowNumber,
			record.Row,
			record.ErrorReason,
		).Scan(&record.CreatedAt)
	default:
		return domain.Record{}, fmt.Errorf("unknown partition %q", partition)
	}
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to insert %s row: %w", partition, err)
	}

	return record, nil
}

func (r *recordRepository) GetClean(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	record := domain.Record{Partition: domain.PartitionClean}
	err := r.db.QueryRow(
		ctx,
		`SELECT id, job_id, row_number, row_data, created_at
		 FROM clean_rows
		 WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.JobID, &record.RowNumber, &record.Row, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, fmt.Errorf("clean record %s: %w", id, domain.ErrNotFound)
		}
		return domain.Record{}, fmt.Errorf("failed to load clean record: %w", err)
	}

	return record, nil
}

func (r *recordRepository) GetQuarantined(ctx context.Context, id uuid.UUID) (domain.Record, error) {
	record := domain.Record{Partition: domain.PartitionQuarantine}
	err := r.db.QueryRow(
		ctx,
		`SELECT id, job_id, row_number, row_data, error_reason, created_at
		 FROM quarantine_rows
		 WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.JobID, &record.RowNumber, &record.Row, &record.ErrorReason, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, fmt.Errorf("quarantined record %s: %w", id, domain.ErrNotFound)
		}
		return domain.Record{}, fmt.Errorf("failed to load quarantined record: %w", err)
	}

	return record, nil
}

func (r *recordRepository) ListClean(ctx context.Context, jobID *uuid.UUID, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	var (
		rows pgx.Rows
		err  error
	)
	if jobID != nil {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, job_id, row_number, row_data, created_at
			 FROM clean_rows
			 WHERE job_id = $1
			 ORDER BY row_number
			 LIMIT $2`,
			*jobID,
			limit,
		)
	} else {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, job_id, row_number, row_data, created_at
			 FROM clean_rows
			 ORDER BY created_at DESC, row_number
			 LIMIT $1`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list clean rows: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		record := domain.Record{Partition: domain.PartitionClean}
		if scanErr := rows.Scan(&record.ID, &record.JobID, &record.RowNumber, &record.Row, &record.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan clean row: %w", scanErr)
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate clean rows: %w", rowsErr)
	}

	return records, nil
}

func (r *recordRepository) ListQuarantined(ctx context.Context, jobID *uuid.UUID) ([]domain.Record, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if jobID != nil {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, job_id, row_number, row_data, error_reason, created_at
			 FROM quarantine_rows
			 WHERE job_id = $1
			 ORDER BY row_number`,
			*jobID,
		)
	} else {
		rows, err = r.db.Query(
			ctx,
			`SELECT id, job_id, row_number, row_data, error_reason, created_at
			 FROM quarantine_rows
			 ORDER BY created_at DESC, row_number`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list quarantined rows: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		record := domain.Record{Partition: domain.PartitionQuarantine}
		if scanErr := rows.Scan(&record.ID, &record.JobID, &record.RowNumber, &record.Row, &record.ErrorReason, &record.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan quarantined row: %w", scanErr)
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate quarantined rows: %w", rowsErr)
	}

	return records, nil
}

func (r *recordRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Record, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, job_id, row_number, row_data, '' AS error_reason, 'clean' AS partition, created_at
		 FROM clean_rows
		 WHERE job_id = $1
		 UNION ALL
		 SELECT id, job_id, row_number, row_data, error_reason, 'quarantine' AS partition, created_at
		 FROM quarantine_rows
		 WHERE job_id = $1
		 ORDER BY row_number`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job rows: %w", err)
	}
	defer rows.Close()

	records := []domain.Record{}
	for rows.Next() {
		var record domain.Record
		if scanErr := rows.Scan(
			&record.ID,
			&record.JobID,
			&record.RowNumber,
			&record.Row,
			&record.ErrorReason,
			&record.Partition,
			&record.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", scanErr)
		}
		records = append(records, record)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate job rows: %w", rowsErr)
	}

	return records, nil
}

func (r *recordRepository) UpdateQuarantinedRow(ctx context.Context, id uuid.UUID, row domain.Row) (domain.Record, error) {
	record := domain.Record{Partition: domain.PartitionQuarantine}
	err := r.db.QueryRow(
		ctx,
		`UPDATE quarantine_rows
		 SET row_data = $2
		 WHERE id = $1
		 RETURNING id, job_id, row_number, row_data, error_reason, created_at`,
		id,
		row,
	).Scan(&record.ID, &record.JobID, &record.RowNumber, &record.Row, &record.ErrorReason, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, fmt.Errorf("quarantined record %s: %w", id, domain.ErrNotFound)
		}
		return domain.Record{}, fmt.Errorf("failed to update quarantined row: %w", err)
	}

	return record, nil
}

func (r *recordRepository) DeleteQuarantined(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quarantine_rows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quarantined row: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quarantined record %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *recordRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM clean_rows WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to clear clean partition: %w", err)
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM quarantine_rows WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("failed to clear quarantine partition: %w", err)
	}

	return nil
}
