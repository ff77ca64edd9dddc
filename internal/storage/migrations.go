package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial snapshot schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS snapshots (
					id TEXT PRIMARY KEY,
					source TEXT NOT NULL,
					header TEXT NOT NULL,
					record_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS snapshot_records (
					snapshot_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					period TEXT NOT NULL,
					segment TEXT NOT NULL,
					customer_id TEXT NOT NULL,
					customer_name TEXT,
					account_manager TEXT,
					aging_0_3 TEXT NOT NULL,
					aging_4_6 TEXT NOT NULL,
					aging_7_12 TEXT NOT NULL,
					aging_13_24 TEXT NOT NULL,
					aging_over_24 TEXT NOT NULL,
					ending_balance TEXT NOT NULL,
					note TEXT,
					delinquency_months INTEGER NOT NULL DEFAULT 0,
					quadrant INTEGER NOT NULL DEFAULT 0,
					last_updated TEXT,
					missing TEXT,
					PRIMARY KEY (snapshot_id, position),
					FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add lookup indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_snapshot_records_period_segment ON snapshot_records(snapshot_id, period, segment)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
