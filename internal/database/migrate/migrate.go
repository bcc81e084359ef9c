package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/database"
)

// Migration is a versioned set of schema statements.
type Migration struct {
	Version    int64
	Name       string
	Statements []string
}

const migrationsSchema = `CREATE TABLE IF NOT EXISTS migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL
)`

// Migrate applies every migration newer than the recorded version, all in one transaction.
func Migrate(ctx context.Context, db *database.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("migrate")

	return db.TransactionContext(ctx, func(tx *database.Tx) error {
		if _, err := tx.ExecContext(ctx, migrationsSchema); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}

		var current int64
		if err := tx.GetContext(ctx, &current, "SELECT COALESCE(MAX(version), 0) FROM migrations"); err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		for _, m := range migrations {
			if m.Version <= current {
				continue
			}

			logger.Info("running migration", zap.Int64("version", m.Version), zap.String("name", m.Name))
			for _, stmt := range m.Statements {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
				}
			}

			if _, err := tx.ExecContext(ctx,
				tx.Rebind("INSERT INTO migrations (version, name) VALUES (?, ?)"),
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
		}

		return nil
	})
}

// Version returns the latest applied migration version.
func Version(ctx context.Context, h database.Handler) (int64, error) {
	var v int64
	if err := h.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM migrations"); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
