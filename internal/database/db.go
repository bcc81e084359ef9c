// Package database provides the SQL substrate shared by every repository.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// Supported driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is the process wide database handle
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

// Tx is a transaction started from DB
type Tx struct {
	*sqlx.Tx
	logger *zap.Logger
}

var (
	_ Handler = (*DB)(nil)
	_ Handler = (*Tx)(nil)
)

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driverName, dsn string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if driverName == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driverName, err)
	}

	if driverName == DriverSQLite {
		// SQLite allows a single writer; one connection serializes access and
		// keeps conditional updates free of SQLITE_BUSY under concurrency.
		db.SetMaxOpenConns(1)
	}

	return &DB{DB: db, logger: logger.Named("db")}, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// TransactionContext runs fn inside a transaction. The transaction is rolled back
// when fn returns an error and committed otherwise.
//
// fn must only use tx; on SQLite the pool holds a single connection and using
// the DB inside fn blocks until the transaction ends.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) error {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{Tx: txx, logger: d.logger}
	if err := fn(tx); err != nil {
		if rerr := txx.Rollback(); rerr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rerr))
		}
		return err
	}

	if err := txx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the underlying pool
func (d *DB) Close() error {
	return d.DB.Close()
}
