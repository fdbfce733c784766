package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/expense-analysis/internal/model"
)

// Row is a record prepared for display.
type Row struct {
	DisplayDate string
	Pivot       string // Series the row belongs to
	model.Record
	sortKey string
}

// Reshape filters records and computes their display date and pivot label.
func Reshape(records []model.Record, opts Options) []Row {
	pivotFields := []model.Field{model.FieldMainCategory}
	if opts.Category != CategoryAll {
		pivotFields = []model.Field{model.FieldCategoryName}
	}
	if opts.Shared == SharedDifferentiate {
		pivotFields = append(pivotFields, model.FieldShared)
	}

	months := make(map[int]bool, len(opts.Months))
	for _, m := range opts.Months {
		months[m] = true
	}

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if opts.Category != CategoryAll && r.MainCategory != opts.Category {
			continue
		}
		if len(months) > 0 && !months[r.Month] {
			continue
		}
		switch opts.Shared {
		case SharedExclude:
			if r.Shared != SharePersonal {
				continue
			}
		case SharedOnly:
			if r.Shared != ShareShared {
				continue
			}
		}

		row := Row{Record: r}
		row.DisplayDate, row.sortKey = displayDate(r, opts.Temporal)
		row.Pivot = pivotLabel(r, pivotFields)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CategoryName < rows[j].CategoryName
	})
	return rows
}

func displayDate(r model.Record, temporal Temporal) (string, string) {
	switch temporal {
	case TemporalMonthly:
		return fmt.Sprintf("%d - %d", r.Month, r.Year), fmt.Sprintf("%04d-%02d", r.Year, r.Month)
	case TemporalWeekly:
		return fmt.Sprintf("%d - %d", r.Week, r.Year), fmt.Sprintf("%04d-W%02d", r.Year, r.Week)
	default:
		return r.Date, r.Date
	}
}

func pivotLabel(r model.Record, fields []model.Field) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, _ := r.Get(f)
		parts = append(parts, v)
	}
	return strings.Join(parts, "-")
}
