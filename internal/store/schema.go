package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS my_articles (
	id SERIAL PRIMARY KEY,
	source_id VARCHAR(100),
	source_name VARCHAR(255),
	author TEXT,
	title TEXT,
	description TEXT,
	url TEXT,
	url_to_image TEXT,
	published_at TIMESTAMP,
	content TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	sentiment_score FLOAT
)`

// adminConn is the slice of pgx.Conn needed for database provisioning.
type adminConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureDatabase creates the named database if it does not exist. It uses
// its own connection to the server's default database: Postgres disallows
// CREATE DATABASE inside a transaction on the target database. Safe to
// call on every run.
func EnsureDatabase(ctx context.Context, adminDSN, name string) error {
	conn, err := pgx.Connect(ctx, adminDSN)
	if err != nil {
		return &ProvisioningError{Op: "admin connect", Err: err}
	}
	defer conn.Close(ctx)

	return ensureDatabase(ctx, conn, name)
}

func ensureDatabase(ctx context.Context, conn adminConn, name string) error {
	var exists bool
	err := conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&exists)
	if err != nil {
		return &ProvisioningError{Op: "catalog query", Err: err}
	}

	if exists {
		log.Printf("Database %s already exists", name)
		return nil
	}

	log.Printf("Database %s does not exist, creating", name)
	createSQL := fmt.Sprintf("CREATE DATABASE %s", pgx.Identifier{name}.Sanitize())
	if _, err := conn.Exec(ctx, createSQL); err != nil {
		return &ProvisioningError{Op: "create database", Err: err}
	}
	return nil
}

// EnsureTable issues an idempotent create for the my_articles table.
func (s *Store) EnsureTable(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTableSQL); err != nil {
		return &ProvisioningError{Op: "create table", Err: err}
	}
	return nil
}
