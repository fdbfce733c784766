package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-analysis/internal/testutil"
)

func TestRecordBuilder(t *testing.T) {
	records := testutil.NewRecordBuilder(t).
		Add("2024-03-04", "RENT", -900).In("appartment", "rent").Shared().
		Add("2024-03-05", "COFFEE", -3).
		Build()

	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].ID)
	assert.Equal(t, 1, records[1].ID)
	assert.Equal(t, "share", records[0].Shared)
	assert.InDelta(t, -450, records[0].RealAmount, 1e-9)
	assert.Equal(t, "rent", records[0].CategoryName)
	assert.Equal(t, 2024, records[1].Year)
	assert.Equal(t, 3, records[1].Month)
	assert.Equal(t, 10, records[1].Week)
	assert.Equal(t, "perso", records[1].Shared)
}

func TestSetupTestDB_SeedSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	records := testutil.NewRecordBuilder(t).WithBasicExpenses().Build()

	db.SeedSnapshot("expenses.csv", records)

	assert.Equal(t, records, db.MustLoadSnapshot("expenses.csv"))
	assert.Equal(t, 7, testutil.NewRecordBuilder(t).WithBasicExpenses().RecordSet().Len())
}
