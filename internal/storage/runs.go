package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// RecordRun appends a correction run to the log.
// An empty ID or zero AppliedAt is filled in on the passed run.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run *model.CorrectionRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.AppliedAt.IsZero() {
		run.AppliedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO correction_runs (
			id, source, corrections_hash, corrections_count,
			rows_before, rows_after, applied_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Source, run.CorrectionsHash, run.CorrectionsCount,
		run.RowsBefore, run.RowsAfter, run.AppliedAt)
	if err != nil {
		return fmt.Errorf("failed to record correction run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent correction run for source.
func (s *SQLiteStorage) LatestRun(ctx context.Context, source string) (*model.CorrectionRun, error) {
	runs, err := s.ListRuns(ctx, source, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no correction runs for %q", common.ErrNotFound, source)
	}
	return &runs[0], nil
}

// ListRuns returns correction runs newest first. An empty source lists every
// source and a limit of zero or less returns all runs.
func (s *SQLiteStorage) ListRuns(ctx context.Context, source string, limit int) ([]model.CorrectionRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, source, corrections_hash, corrections_count,
		       rows_before, rows_after, applied_at
		FROM correction_runs`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY applied_at DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query correction runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.CorrectionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correction runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (model.CorrectionRun, error) {
	var run model.CorrectionRun
	err := rows.Scan(
		&run.ID,
		&run.Source,
		&run.CorrectionsHash,
		&run.CorrectionsCount,
		&run.RowsBefore,
		&run.RowsAfter,
		&run.AppliedAt,
	)
	if err != nil {
		return run, fmt.Errorf("failed to scan correction run: %w", err)
	}
	return run, nil
}
