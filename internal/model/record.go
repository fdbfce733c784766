// Package model defines the core data structures for the expense analysis application.
package model

import (
	"fmt"

	"github.com/Veraticus/expense-analysis/internal/common"
)

// Field names a text column of a record.
type Field string

// Text fields that can be read and assigned by name.
const (
	FieldDate         Field = "date"
	FieldBankName     Field = "bank_name"
	FieldLabel        Field = "label"
	FieldShared       Field = "shared"
	FieldMainCategory Field = "main_category"
	FieldCategoryName Field = "category_name"
)

// Record represents a single bank transaction row.
type Record struct {
	Date         string // Kept as the literal string found in the source
	BankName     string
	Label        string
	Shared       string
	MainCategory string
	CategoryName string
	ID           int // Positional row id assigned at load time
	Week         int
	Month        int
	Year         int
	Amount       float64
	RealAmount   float64 // Amount after applying the personal share
}

// Get returns the value of a text field.
func (r *Record) Get(field Field) (string, error) {
	switch field {
	case FieldDate:
		return r.Date, nil
	case FieldBankName:
		return r.BankName, nil
	case FieldLabel:
		return r.Label, nil
	case FieldShared:
		return r.Shared, nil
	case FieldMainCategory:
		return r.MainCategory, nil
	case FieldCategoryName:
		return r.CategoryName, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownField, field)
	}
}

// Set assigns the value of a text field.
func (r *Record) Set(field Field, value string) error {
	switch field {
	case FieldDate:
		r.Date = value
	case FieldBankName:
		r.BankName = value
	case FieldLabel:
		r.Label = value
	case FieldShared:
		r.Shared = value
	case FieldMainCategory:
		r.MainCategory = value
	case FieldCategoryName:
		r.CategoryName = value
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownField, field)
	}
	return nil
}
