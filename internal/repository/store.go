package repository

import (
	"context"

	"github.com/rowguard/rowguard/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx satisfied by both *pgxpool.Pool and pgx.Tx, so
// every repository runs unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type postgresStore struct {
	conn *db.Connection
	db   DBTX
}

// NewPostgresStore wires the repository set backed by the shared pgx pool.
func NewPostgresStore(conn *db.Connection) Store {
	return &postgresStore{conn: conn, db: conn.Pool}
}

func (s *postgresStore) Rules() RuleRepository     { return &ruleRepository{db: s.db} }
func (s *postgresStore) Jobs() JobRepository       { return &jobRepository{db: s.db} }
func (s *postgresStore) Records() RecordRepository { return &recordRepository{db: s.db} }
func (s *postgresStore) Logs() LogRepository       { return &logRepository{db: s.db} }

// WithinTx runs fn against a transaction-bound Store. Nesting is not
// supported; services open exactly one transaction per operation.
func (s *postgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(&postgresStore{conn: s.conn, db: tx})
	})
}
