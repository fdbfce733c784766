package analysis

import (
	"math"
	"sort"

	"github.com/Veraticus/expense-analysis/internal/model"
)

// Bar colors for savings and overspending.
const (
	ColorOverspent = "#eb4034"
	ColorSaved     = "#3496eb"
)

// Delta compares expenses of one pivot between two years. Expenses are negative, so a
// positive delta means less was spent in the compared year.
type Delta struct {
	Pivot    string
	Color    string
	Base     float64
	Compare  float64
	Delta    float64
	DeltaPct float64 // NaN when nothing was spent in the base year
}

// HasPct reports whether the percentage is defined.
func (d Delta) HasPct() bool {
	return !math.IsNaN(d.DeltaPct)
}

// CompareYears sums expenses per pivot for both years and sorts by delta, worst first.
func CompareYears(rows []Row, baseYear, compareYear int) []Delta {
	base := make(map[string]float64)
	cmp := make(map[string]float64)
	pivots := make(map[string]bool)

	for _, r := range rows {
		if r.RealAmount >= 0 {
			continue
		}
		switch r.Year {
		case baseYear:
			base[r.Pivot] += r.RealAmount
		case compareYear:
			cmp[r.Pivot] += r.RealAmount
		default:
			continue
		}
		pivots[r.Pivot] = true
	}

	deltas := make([]Delta, 0, len(pivots))
	for p := range pivots {
		d := Delta{
			Pivot:   p,
			Base:    base[p],
			Compare: cmp[p],
		}
		d.Delta = d.Compare - d.Base
		if d.Base != 0 {
			d.DeltaPct = d.Delta / math.Abs(d.Base) * 100
		} else {
			d.DeltaPct = math.NaN()
		}
		d.Color = ColorSaved
		if d.Delta < 0 {
			d.Color = ColorOverspent
		}
		deltas = append(deltas, d)
	}

	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].Delta != deltas[j].Delta {
			return deltas[i].Delta < deltas[j].Delta
		}
		return deltas[i].Pivot < deltas[j].Pivot
	})
	return deltas
}

// KnownCategories returns the distinct category names present in records, sorted.
func KnownCategories(records []model.Record) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		if r.CategoryName != "" && !seen[r.CategoryName] {
			seen[r.CategoryName] = true
			out = append(out, r.CategoryName)
		}
	}
	sort.Strings(out)
	return out
}
