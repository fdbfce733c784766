package model

import (
	"fmt"

	"github.com/Veraticus/expense-analysis/internal/common"
)

// RecordSet is an ordered collection of records addressed by row id.
// It is not safe for concurrent use; callers own it exclusively while mutating it.
type RecordSet struct {
	index map[int]int
	rows  []Record
}

// NewRecordSet builds a record set, keeping the given order.
func NewRecordSet(records []Record) (*RecordSet, error) {
	s := &RecordSet{
		rows:  make([]Record, len(records)),
		index: make(map[int]int, len(records)),
	}
	copy(s.rows, records)

	for i, r := range s.rows {
		if _, exists := s.index[r.ID]; exists {
			return nil, fmt.Errorf("%w: row id %d", common.ErrDuplicateEntry, r.ID)
		}
		s.index[r.ID] = i
	}

	return s, nil
}

// Len returns the number of rows.
func (s *RecordSet) Len() int {
	return len(s.rows)
}

// Records returns a copy of the rows in order.
func (s *RecordSet) Records() []Record {
	out := make([]Record, len(s.rows))
	copy(out, s.rows)
	return out
}

// Has reports whether a row with the given id exists.
func (s *RecordSet) Has(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns the row with the given id.
func (s *RecordSet) Get(id int) (Record, error) {
	i, ok := s.index[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: row %d", common.ErrRecordNotFound, id)
	}
	return s.rows[i], nil
}

// SetField assigns a text field on the row with the given id.
func (s *RecordSet) SetField(id int, field Field, value string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: row %d", common.ErrRecordNotFound, id)
	}
	return s.rows[i].Set(field, value)
}

// SetFieldWhere assigns a text field on every row matching pred and returns how many matched.
func (s *RecordSet) SetFieldWhere(pred func(Record) bool, field Field, value string) (int, error) {
	matched := 0
	for i := range s.rows {
		if !pred(s.rows[i]) {
			continue
		}
		if err := s.rows[i].Set(field, value); err != nil {
			return matched, err
		}
		matched++
	}
	return matched, nil
}

// Drop removes the row with the given id. Remaining rows keep their order and ids.
func (s *RecordSet) Drop(id int) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: row %d", common.ErrRecordNotFound, id)
	}

	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.rows); j++ {
		s.index[s.rows[j].ID] = j
	}
	return nil
}

// Clone returns an independent copy of the record set.
func (s *RecordSet) Clone() *RecordSet {
	c := &RecordSet{
		rows:  s.Records(),
		index: make(map[int]int, len(s.index)),
	}
	for id, i := range s.index {
		c.index[id] = i
	}
	return c
}
