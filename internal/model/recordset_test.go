package model

import (
	"strings"
	"testing"

	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []Record {
	return []Record{
		{ID: 0, Label: "Starbucks Coffee", CategoryName: "restaurant"},
		{ID: 1, Label: "STARBUCKS", CategoryName: "restaurant"},
		{ID: 2, Label: "Other", CategoryName: "misc"},
		{ID: 3, Label: "", CategoryName: "misc"},
	}
}

func TestNewRecordSet(t *testing.T) {
	s, err := NewRecordSet(testRecords())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(9))

	_, err = NewRecordSet([]Record{{ID: 1}, {ID: 1}})
	require.ErrorIs(t, err, common.ErrDuplicateEntry)
}

func TestRecordSet_SetField(t *testing.T) {
	s, err := NewRecordSet(testRecords())
	require.NoError(t, err)

	require.NoError(t, s.SetField(2, FieldCategoryName, "coffee"))
	r, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "coffee", r.CategoryName)

	err = s.SetField(42, FieldCategoryName, "coffee")
	require.ErrorIs(t, err, common.ErrRecordNotFound)

	err = s.SetField(2, Field("amount"), "12")
	require.ErrorIs(t, err, common.ErrUnknownField)
}

func TestRecordSet_SetFieldWhere(t *testing.T) {
	s, err := NewRecordSet(testRecords())
	require.NoError(t, err)

	n, err := s.SetFieldWhere(func(r Record) bool {
		return strings.Contains(strings.ToLower(r.Label), "starbucks")
	}, FieldCategoryName, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := s.Records()
	assert.Equal(t, "coffee", rows[0].CategoryName)
	assert.Equal(t, "coffee", rows[1].CategoryName)
	assert.Equal(t, "misc", rows[2].CategoryName)
}

func TestRecordSet_Drop(t *testing.T) {
	s, err := NewRecordSet(testRecords())
	require.NoError(t, err)

	require.NoError(t, s.Drop(1))
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Has(1))

	ids := make([]int, 0, s.Len())
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{0, 2, 3}, ids)

	// Rows after the dropped one are still addressable.
	require.NoError(t, s.SetField(3, FieldDate, "2024-01-02"))
	r, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", r.Date)

	require.ErrorIs(t, s.Drop(1), common.ErrRecordNotFound)
}

func TestRecordSet_CloneIsIndependent(t *testing.T) {
	s, err := NewRecordSet(testRecords())
	require.NoError(t, err)

	c := s.Clone()
	require.NoError(t, c.Drop(0))
	require.NoError(t, c.SetField(2, FieldLabel, "changed"))

	assert.Equal(t, 4, s.Len())
	r, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Other", r.Label)
}
