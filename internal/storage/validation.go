package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/expense-analysis/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidRecord  = errors.New("invalid record")
	ErrInvalidRun     = errors.New("invalid correction run")
	ErrDuplicateRowID = errors.New("duplicate row id")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecords checks that records can be stored as one snapshot.
func validateRecords(records []model.Record) error {
	seen := make(map[int]bool, len(records))
	for i, r := range records {
		if r.ID < 0 {
			return fmt.Errorf("%w: record at index %d has negative id %d", ErrInvalidRecord, i, r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("%w: %d", ErrDuplicateRowID, r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// validateRun validates a correction run.
func validateRun(run *model.CorrectionRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.Source) == "" {
		return fmt.Errorf("%w: missing source", ErrInvalidRun)
	}
	if strings.TrimSpace(run.CorrectionsHash) == "" {
		return fmt.Errorf("%w: missing corrections hash", ErrInvalidRun)
	}
	if run.RowsAfter > run.RowsBefore {
		return fmt.Errorf("%w: corrections cannot add rows (%d -> %d)", ErrInvalidRun, run.RowsBefore, run.RowsAfter)
	}
	return nil
}
