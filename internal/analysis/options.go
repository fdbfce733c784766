// Package analysis reshapes corrected records into the series, scales and year-over-year
// comparisons shown by the dashboard.
package analysis

import (
	"fmt"
	"strings"

	"github.com/Veraticus/expense-analysis/internal/common"
)

// CategoryAll selects every main category.
const CategoryAll = "ALL"

// MotherCategories lists the selectable main categories, CategoryAll first.
var MotherCategories = []string{
	CategoryAll,
	"appartment",
	"bank",
	"car",
	"chillOut",
	"culture",
	"dailyLife",
	"gifts",
	"health",
	"holiday",
	"income",
	"kids",
	"pets",
	"pro",
	"sport",
	"transport",
	"travel",
}

// Share types found in the shared column.
const (
	SharePersonal = "perso"
	ShareShared   = "share"
)

// Aggregation is how bars combine rows.
type Aggregation string

// Aggregations.
const (
	AggregationCount Aggregation = "count"
	AggregationSum   Aggregation = "sum"
)

// Aggregations lists every aggregation in display order.
var Aggregations = []Aggregation{AggregationCount, AggregationSum}

// SharedMode is how shared expenses are treated.
type SharedMode string

// Shared expense modes.
const (
	SharedInclude       SharedMode = "include"
	SharedExclude       SharedMode = "exclude"
	SharedOnly          SharedMode = "only"
	SharedDifferentiate SharedMode = "differentiate"
)

// SharedModes lists every shared mode in display order.
var SharedModes = []SharedMode{SharedInclude, SharedExclude, SharedOnly, SharedDifferentiate}

// Temporal is the time granularity of the x axis.
type Temporal string

// Temporal granularities.
const (
	TemporalDaily   Temporal = "daily"
	TemporalWeekly  Temporal = "weekly"
	TemporalMonthly Temporal = "monthly"
)

// Temporals lists every granularity in display order.
var Temporals = []Temporal{TemporalDaily, TemporalWeekly, TemporalMonthly}

// Options selects what the dashboard shows.
type Options struct {
	Category    string
	Aggregation Aggregation
	Shared      SharedMode
	Temporal    Temporal
	Months      []int // Empty keeps every month
}

// DefaultOptions mirrors the dashboard's initial state.
func DefaultOptions() Options {
	return Options{
		Category:    CategoryAll,
		Aggregation: AggregationSum,
		Shared:      SharedInclude,
		Temporal:    TemporalMonthly,
	}
}

// Validate checks every option against its allowed values.
func (o Options) Validate() error {
	if !contains(MotherCategories, o.Category) {
		return fmt.Errorf("%w: category %q", common.ErrInvalidConfig, o.Category)
	}
	if !contains(Aggregations, o.Aggregation) {
		return fmt.Errorf("%w: aggregation %q", common.ErrInvalidConfig, o.Aggregation)
	}
	if !contains(SharedModes, o.Shared) {
		return fmt.Errorf("%w: shared mode %q", common.ErrInvalidConfig, o.Shared)
	}
	if !contains(Temporals, o.Temporal) {
		return fmt.Errorf("%w: temporal display %q", common.ErrInvalidConfig, o.Temporal)
	}
	for _, m := range o.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: month %d", common.ErrInvalidConfig, m)
		}
	}
	return nil
}

// ParseSharedMode accepts the mode names, including the legacy "differenciate" spelling.
func ParseSharedMode(s string) (SharedMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "differenciate" {
		return SharedDifferentiate, nil
	}
	mode := SharedMode(s)
	if !contains(SharedModes, mode) {
		return "", fmt.Errorf("%w: shared mode %q", common.ErrInvalidConfig, s)
	}
	return mode, nil
}

// Next returns the value following current in values, wrapping around.
func Next[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

// Prev returns the value preceding current in values, wrapping around.
func Prev[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+len(values)-1)%len(values)]
		}
	}
	return values[0]
}

func contains[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
