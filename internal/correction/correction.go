// Package correction implements declarative fixes applied to imported records before analysis.
//
// A Correction is one atomic edit: assign a field on matching rows or drop a row. A Set applies
// its corrections strictly in declaration order and persists them as JSON together with a
// content hash of the rule list.
package correction

import (
	"strings"

	"github.com/Veraticus/expense-analysis/internal/model"
)

// Kind is the discriminant stored under "class" in the serialized form.
type Kind string

// Known correction kinds.
const (
	KindCategoryWhereLabelContains Kind = "CategoryCorrectionWhereLabelContains"
	KindCategoryFromLoc            Kind = "CategoryCorrectionFromLoc"
	KindDateFromLoc                Kind = "DateCorrectionFromLoc"
	KindRowDropping                Kind = "RowDroppingFromLoc"
)

// Fields targeted by the assignment kinds.
const (
	categoryTarget = model.FieldCategoryName
	dateTarget     = model.FieldDate
	labelSource    = model.FieldLabel
)

// Correction is a single rule. The set of implementations is closed to this package.
type Correction interface {
	// Kind returns the discriminant naming this rule's variant.
	Kind() Kind
	// Apply mutates records in place.
	Apply(records *model.RecordSet) error
	// params returns the constructor parameters in order, without the discriminant.
	params() Params
}

// Note returns a pointer suitable for a Comments field.
func Note(s string) *string {
	return &s
}

// CategoryWhereLabelContains sets the category of every record whose label contains a substring.
type CategoryWhereLabelContains struct {
	Comments     *string
	Contains     string
	CorrectValue string
	ToLower      bool // Compare case-insensitively
}

// Kind implements Correction.
func (c CategoryWhereLabelContains) Kind() Kind { return KindCategoryWhereLabelContains }

// Matches reports whether a label is selected by this rule.
func (c CategoryWhereLabelContains) Matches(label string) bool {
	if c.ToLower {
		return strings.Contains(strings.ToLower(label), strings.ToLower(c.Contains))
	}
	return strings.Contains(label, c.Contains)
}

// Apply implements Correction.
func (c CategoryWhereLabelContains) Apply(records *model.RecordSet) error {
	_, err := records.SetFieldWhere(func(r model.Record) bool {
		label, err := r.Get(labelSource)
		if err != nil {
			return false
		}
		return c.Matches(label)
	}, categoryTarget, c.CorrectValue)
	return err
}

func (c CategoryWhereLabelContains) params() Params {
	return Params{
		{Key: "contains", Value: c.Contains},
		{Key: "to_lower", Value: c.ToLower},
		{Key: "correct_value", Value: c.CorrectValue},
		{Key: "comments", Value: noteValue(c.Comments)},
	}
}

// CategoryFromLoc sets the category of a single row.
type CategoryFromLoc struct {
	Comments     *string
	CorrectValue string
	LocID        int
}

// Kind implements Correction.
func (c CategoryFromLoc) Kind() Kind { return KindCategoryFromLoc }

// Apply implements Correction.
func (c CategoryFromLoc) Apply(records *model.RecordSet) error {
	return records.SetField(c.LocID, categoryTarget, c.CorrectValue)
}

func (c CategoryFromLoc) params() Params {
	return Params{
		{Key: "loc_id", Value: c.LocID},
		{Key: "correct_value", Value: c.CorrectValue},
		{Key: "comments", Value: noteValue(c.Comments)},
	}
}

// DateFromLoc sets the date of a single row. The value is stored verbatim.
type DateFromLoc struct {
	Comments     *string
	CorrectValue string
	LocID        int
}

// Kind implements Correction.
func (c DateFromLoc) Kind() Kind { return KindDateFromLoc }

// Apply implements Correction.
func (c DateFromLoc) Apply(records *model.RecordSet) error {
	return records.SetField(c.LocID, dateTarget, c.CorrectValue)
}

func (c DateFromLoc) params() Params {
	return Params{
		{Key: "loc_id", Value: c.LocID},
		{Key: "correct_value", Value: c.CorrectValue},
		{Key: "comments", Value: noteValue(c.Comments)},
	}
}

// RowDropping removes a single row. Dropping an id twice fails.
type RowDropping struct {
	Comments *string
	LocID    int
}

// Kind implements Correction.
func (c RowDropping) Kind() Kind { return KindRowDropping }

// Apply implements Correction.
func (c RowDropping) Apply(records *model.RecordSet) error {
	return records.Drop(c.LocID)
}

func (c RowDropping) params() Params {
	return Params{
		{Key: "loc_id", Value: c.LocID},
		{Key: "comments", Value: noteValue(c.Comments)},
	}
}

func noteValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
