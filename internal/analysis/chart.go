package analysis

import (
	"sort"
)

// Bar is one stacked segment of the chart.
type Bar struct {
	X      string
	Series string
	Value  float64
}

// Scale is a y-axis domain. A nil scale lets the renderer fit the data.
type Scale struct {
	Min float64
	Max float64
}

// Chart is a stacked bar chart: one column per display date, one segment per pivot.
type Chart struct {
	Scale       *Scale
	Aggregation Aggregation
	XValues     []string // Chronological
	Series      []string // Sorted
	Bars        []Bar
}

// Value returns the bar value for a column and series.
func (c Chart) Value(x, series string) (float64, bool) {
	for _, b := range c.Bars {
		if b.X == x && b.Series == series {
			return b.Value, true
		}
	}
	return 0, false
}

// ColumnTotal sums every segment of a column.
func (c Chart) ColumnTotal(x string) float64 {
	total := 0.0
	for _, b := range c.Bars {
		if b.X == x {
			total += b.Value
		}
	}
	return total
}

// BuildChart aggregates reshaped rows.
func BuildChart(rows []Row, opts Options) Chart {
	type key struct{ x, series string }

	values := make(map[key]float64)
	xSort := make(map[string]string)
	seriesSet := make(map[string]bool)

	for _, r := range rows {
		k := key{r.DisplayDate, r.Pivot}
		switch opts.Aggregation {
		case AggregationCount:
			values[k]++
		default:
			values[k] += r.RealAmount
		}
		xSort[r.DisplayDate] = r.sortKey
		seriesSet[r.Pivot] = true
	}

	chart := Chart{Aggregation: opts.Aggregation}
	for x := range xSort {
		chart.XValues = append(chart.XValues, x)
	}
	sort.Slice(chart.XValues, func(i, j int) bool {
		a, b := chart.XValues[i], chart.XValues[j]
		if xSort[a] != xSort[b] {
			return xSort[a] < xSort[b]
		}
		return a < b
	})

	for s := range seriesSet {
		chart.Series = append(chart.Series, s)
	}
	sort.Strings(chart.Series)

	for _, x := range chart.XValues {
		for _, s := range chart.Series {
			if v, ok := values[key{x, s}]; ok {
				chart.Bars = append(chart.Bars, Bar{X: x, Series: s, Value: v})
			}
		}
	}

	chart.Scale = YScale(rows, opts)
	return chart
}

// YScale pads the y domain by 10% when a single category is summed. Other views are
// left to the renderer.
func YScale(rows []Row, opts Options) *Scale {
	if opts.Aggregation == AggregationCount || opts.Category == CategoryAll || len(rows) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	for _, r := range rows {
		totals[r.DisplayDate] += r.RealAmount
	}

	first := true
	var lo, hi float64
	for _, v := range totals {
		if first || v < lo {
			lo = v
		}
		if first || v > hi {
			hi = v
		}
		first = false
	}

	pad := 0.1 * (hi - lo)
	return &Scale{Min: lo - pad, Max: hi + pad}
}
