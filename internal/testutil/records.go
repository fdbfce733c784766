package testutil

import (
	"testing"

	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// Share types used by the builder.
const (
	sharePersonal = "perso"
	shareShared   = "share"
)

// RecordBuilder provides a fluent interface for constructing test records.
// Ids are assigned in insertion order starting at zero.
type RecordBuilder struct {
	t       *testing.T
	records []model.Record
}

// NewRecordBuilder creates an empty builder.
func NewRecordBuilder(t *testing.T) *RecordBuilder {
	t.Helper()
	return &RecordBuilder{t: t}
}

// Add appends a personal record. The calendar columns are derived from date.
func (b *RecordBuilder) Add(date, label string, amount float64) *RecordBuilder {
	rec := model.Record{
		ID:         len(b.records),
		Date:       date,
		BankName:   "test-bank",
		Label:      label,
		Amount:     amount,
		RealAmount: amount,
		Shared:     sharePersonal,
	}
	dataset.FillCalendar(&rec)
	b.records = append(b.records, rec)
	return b
}

// In sets the categories of the last added record.
func (b *RecordBuilder) In(mainCategory, categoryName string) *RecordBuilder {
	b.t.Helper()
	last := b.last()
	last.MainCategory = mainCategory
	last.CategoryName = categoryName
	return b
}

// Shared marks the last added record as shared, halving its real amount.
func (b *RecordBuilder) Shared() *RecordBuilder {
	b.t.Helper()
	last := b.last()
	last.Shared = shareShared
	last.RealAmount = last.Amount / 2
	return b
}

// WithBasicExpenses adds a small two-year dataset covering several categories.
func (b *RecordBuilder) WithBasicExpenses() *RecordBuilder {
	return b.
		Add("2022-04-02", "CB STARBUCKS 12", -4.5).In("dailyLife", "coffee").
		Add("2022-05-14", "SNCF TRAIN", -60).In("transport", "train").
		Add("2022-06-01", "LOYER AVRIL", -900).In("appartment", "rent").Shared().
		Add("2024-04-03", "Starbucks Coffee", -5).In("dailyLife", "coffee").
		Add("2024-05-10", "SNCF TRAIN", -80).In("transport", "train").Shared().
		Add("2024-06-01", "LOYER MAI", -950).In("appartment", "rent").Shared().
		Add("2024-06-25", "SALAIRE", 2500).In("income", "salary")
}

// Build returns the records built so far.
func (b *RecordBuilder) Build() []model.Record {
	out := make([]model.Record, len(b.records))
	copy(out, b.records)
	return out
}

// RecordSet returns the records as a record set or fails the test.
func (b *RecordBuilder) RecordSet() *model.RecordSet {
	b.t.Helper()
	set, err := model.NewRecordSet(b.Build())
	if err != nil {
		b.t.Fatalf("failed to build record set: %v", err)
	}
	return set
}

func (b *RecordBuilder) last() *model.Record {
	b.t.Helper()
	if len(b.records) == 0 {
		b.t.Fatal("no record added yet")
	}
	return &b.records[len(b.records)-1]
}
