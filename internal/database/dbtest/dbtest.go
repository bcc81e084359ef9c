// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/database/migrate"
)

// OpenSqlite opens a fresh SQLite database under tb.TempDir and runs every migration.
func OpenSqlite(tb testing.TB) *database.DB {
	tb.Helper()

	ctx := context.Background()
	dsn := "file:" + filepath.Join(tb.TempDir(), "planify.db")

	logger := zaptest.NewLogger(tb)
	db, err := database.Open(ctx, database.DriverSQLite, dsn, logger)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() {
		if err := db.Close(); err != nil {
			tb.Errorf("close sqlite: %v", err)
		}
	})

	if err := migrate.Migrate(ctx, db, logger); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}
