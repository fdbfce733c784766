package model

import "time"

// Snapshot describes a stored copy of a record set.
type Snapshot struct {
	SavedAt         time.Time
	Source          string
	CorrectionsHash string // Empty when the records were stored uncorrected
	RowCount        int
}

// CorrectionRun records one application of a correction set.
type CorrectionRun struct {
	AppliedAt        time.Time
	ID               string
	Source           string
	CorrectionsHash  string
	CorrectionsCount int
	RowsBefore       int
	RowsAfter        int
}

// RowsDropped returns how many rows the run removed.
func (r CorrectionRun) RowsDropped() int {
	return r.RowsBefore - r.RowsAfter
}
