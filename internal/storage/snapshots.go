package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// SaveSnapshot replaces the stored snapshot for snap.Source with records.
// progress, when non-nil, is called after each saved row with the running count.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap model.Snapshot, records []model.Record, progress func(saved int)) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(snap.Source, "source"); err != nil {
		return err
	}
	if err := validateRecords(records); err != nil {
		return err
	}

	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE source = ?`, snap.Source); err != nil {
		return fmt.Errorf("failed to clear previous snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (source, corrections_hash, row_count, saved_at)
		VALUES (?, ?, ?, ?)
	`, snap.Source, snap.CorrectionsHash, len(records), snap.SavedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			source, row_id, position, date, week, month, year,
			bank_name, label, amount, shared, real_amount,
			main_category, category_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		_, err := stmt.ExecContext(ctx,
			snap.Source, r.ID, i, r.Date, r.Week, r.Month, r.Year,
			r.BankName, r.Label, r.Amount, r.Shared, r.RealAmount,
			r.MainCategory, r.CategoryName,
		)
		if err != nil {
			return fmt.Errorf("failed to save record %d: %w", r.ID, err)
		}
		if progress != nil {
			progress(i + 1)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	slog.Debug("Saved snapshot",
		"source", snap.Source,
		"rows", len(records),
		"corrections_hash", snap.CorrectionsHash)
	return nil
}

// LoadSnapshot returns the stored snapshot for source with its records in saved order.
func (s *SQLiteStorage) LoadSnapshot(ctx context.Context, source string) (*model.Snapshot, []model.Record, error) {
	if err := validateContext(ctx); err != nil {
		return nil, nil, err
	}
	if err := validateString(source, "source"); err != nil {
		return nil, nil, err
	}

	snap, err := s.getSnapshot(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, date, week, month, year, bank_name, label,
		       amount, shared, real_amount, main_category, category_name
		FROM records
		WHERE source = ?
		ORDER BY position
	`, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]model.Record, 0, snap.RowCount)
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(
			&r.ID, &r.Date, &r.Week, &r.Month, &r.Year, &r.BankName, &r.Label,
			&r.Amount, &r.Shared, &r.RealAmount, &r.MainCategory, &r.CategoryName,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating records: %w", err)
	}

	return snap, records, nil
}

func (s *SQLiteStorage) getSnapshot(ctx context.Context, source string) (*model.Snapshot, error) {
	var snap model.Snapshot
	err := s.db.QueryRowContext(ctx, `
		SELECT source, corrections_hash, row_count, saved_at
		FROM snapshots
		WHERE source = ?
	`, source).Scan(&snap.Source, &snap.CorrectionsHash, &snap.RowCount, &snap.SavedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: snapshot %q", common.ErrNotFound, source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return &snap, nil
}

// ListSnapshots returns all stored snapshots, most recent first.
func (s *SQLiteStorage) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT source, corrections_hash, row_count, saved_at
		FROM snapshots
		ORDER BY saved_at DESC, source
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshots []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		if err := rows.Scan(&snap.Source, &snap.CorrectionsHash, &snap.RowCount, &snap.SavedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// DeleteSnapshot removes the snapshot for source and its records.
func (s *SQLiteStorage) DeleteSnapshot(ctx context.Context, source string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(source, "source"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: snapshot %q", common.ErrNotFound, source)
	}
	return nil
}
