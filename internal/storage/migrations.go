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
		Description: "Record snapshots",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS snapshots (
					source TEXT PRIMARY KEY,
					corrections_hash TEXT NOT NULL DEFAULT '',
					row_count INTEGER NOT NULL,
					saved_at DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS records (
					source TEXT NOT NULL,
					row_id INTEGER NOT NULL,
					position INTEGER NOT NULL,
					date TEXT NOT NULL,
					week INTEGER NOT NULL DEFAULT 0,
					month INTEGER NOT NULL DEFAULT 0,
					year INTEGER NOT NULL DEFAULT 0,
					bank_name TEXT NOT NULL DEFAULT '',
					label TEXT NOT NULL DEFAULT '',
					amount REAL NOT NULL DEFAULT 0,
					shared TEXT NOT NULL DEFAULT '',
					real_amount REAL NOT NULL DEFAULT 0,
					main_category TEXT NOT NULL DEFAULT '',
					category_name TEXT NOT NULL DEFAULT '',
					PRIMARY KEY (source, row_id),
					FOREIGN KEY (source) REFERENCES snapshots(source) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_records_position ON records(source, position)`,
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
		Description: "Correction run log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS correction_runs (
					id TEXT PRIMARY KEY,
					source TEXT NOT NULL,
					corrections_hash TEXT NOT NULL,
					corrections_count INTEGER NOT NULL,
					rows_before INTEGER NOT NULL,
					rows_after INTEGER NOT NULL,
					applied_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_correction_runs_source ON correction_runs(source, applied_at)`,
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

		slog.Debug("Applied migration",
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
