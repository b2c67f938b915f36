package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rowguard/rowguard/internal/domain"

	"github.com/jackc/pgx/v5"
)

type ruleRepository struct {
	db DBTX
}

func (r *ruleRepository) List(ctx context.Context) ([]domain.Rule, error) {
	return r.list(ctx, `SELECT id, column_name, rule_type, rule_value, is_active, created_at, updated_at
		 FROM rules
		 ORDER BY column_name, created_at`)
}

func (r *ruleRepository) ListActive(ctx context.Context) ([]domain.Rule, error) {
	return r.list(ctx, `SELECT id, column_name, rule_type, rule_value, is_active, created_at, updated_at
		 FROM rules
		 WHERE is_active = TRUE
		 ORDER BY column_name, created_at`)
}

func (r *ruleRepository) list(ctx context.Context, query string) ([]domain.Rule, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		var rule domain.Rule
		if scanErr := rows.Scan(
			&rule.ID,
			&rule.ColumnName,
			&rule.Kind,
			&rule.Definition,
			&rule.Active,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", scanErr)
		}
		rules = append(rules, rule)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", rowsErr)
	}

	return rules, nil
}

func (r *ruleRepository) Create(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	err := r.db.QueryRow(
		ctx,
		`INSERT INTO rules (column_name, rule_type, rule_value, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		rule.ColumnName,
		rule.Kind,
		rule.Definition,
		rule.Active,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return domain.Rule{}, fmt.Errorf("failed to create rule: %w", err)
	}

	return rule, nil
}

func (r *ruleRepository) Update(ctx context.Context, rule domain.Rule) (domain.Rule, error) {
	err := r.db.QueryRow(
		ctx,
		`UPDATE rules
		 SET column_name = $2, rule_type = $3, rule_value = $4, is_active = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		rule.ID,
		rule.ColumnName,
		rule.Kind,
		rule.Definition,
		rule.Active,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rule{}, fmt.Errorf("rule %s: %w", rule.ID, domain.ErrNotFound)
		}
		return domain.Rule{}, fmt.Errorf("failed to update rule: %w", err)
	}

	return rule, nil
}

func (r *ruleRepository) ReplaceAll(ctx context.Context, rules []domain.Rule) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM rules`); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}
	for _, rule := range rules {
		if _, err := r.Create(ctx, rule); err != nil {
			return err
		}
	}
	return nil
}
