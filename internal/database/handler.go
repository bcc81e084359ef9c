package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Handler is satisfied by both *DB and *Tx so repositories can run
// inside or outside a transaction.
type Handler interface {
	DriverName() string
	Rebind(string) string

	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
