package db

import (
	"context"
	"database/sql"
)

// SQLDB is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
