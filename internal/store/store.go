// Package store owns the my_articles table: provisioning, batch inserts
// and reads. The table is append-only; no update or delete path exists.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the slice of pgxpool.Pool the store uses. pgxmock satisfies
// it too.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store wraps a connection pool to the data database.
type Store struct {
	db Querier
}

// Open connects to the data database. Connection failures come back as
// *ConnectError so the presentation layer can tell them apart from query
// failures.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, &ConnectError{Err: fmt.Errorf("parsing dsn: %w", err)}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &ConnectError{Err: err}
	}
	return &Store{db: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.db.Close()
}
