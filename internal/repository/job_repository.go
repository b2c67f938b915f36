package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type jobRepository struct {
	db DBTX
}

const jobColumns = `id, source_name, status, column_order, total_rows, clean_rows, quarantined_rows, created_at`

func (r *jobRepository) Create(ctx context.Context, job domain.Job) (domain.Job, error) {
	if job.ColumnOrder == nil {
		job.ColumnOrder = []string{}
	}
	err := r.db.QueryRow(
		ctx,
		`INSERT INTO jobs (source_name, status, column_order)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		job.SourceName,
		job.Status,
		job.ColumnOrder,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return domain.Job{}, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return r.get(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
}

func (r *jobRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (domain.Job, error) {
	return r.get(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id)
}

func (r *jobRepository) get(ctx context.Context, query string, id uuid.UUID) (domain.Job, error) {
	var job domain.Job
	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.SourceName,
		&job.Status,
		&job.ColumnOrder,
		&job.TotalRows,
		&job.CleanRows,
		&job.QuarantinedRows,
		&job.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("failed to load job: %w", err)
	}

	return job, nil
}

func (r *jobRepository) List(ctx context.Context, limit int) ([]domain.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		var job domain.Job
		if scanErr := rows.Scan(
			&job.ID,
			&job.SourceName,
			&job.Status,
			&job.ColumnOrder,
			&job.TotalRows,
			&job.CleanRows,
			&job.QuarantinedRows,
			&job.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan job: %w", scanErr)
		}
		jobs = append(jobs, job)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", rowsErr)
	}

	return jobs, nil
}

func (r *jobRepository) UpdateCounts(ctx context.Context, id uuid.UUID, status domain.JobStatus, total, clean, quarantined int) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE jobs
		 SET status = $2, total_rows = $3, clean_rows = $4, quarantined_rows = $5
		 WHERE id = $1`,
		id,
		status,
		total,
		clean,
		quarantined,
	)
	if err != nil {
		return fmt.Errorf("failed to update job counts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
