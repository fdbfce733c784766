package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/correction"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// BarWidth is the number of cells used by the longest chart bar.
const BarWidth = 40

const (
	barFull  = "█"
	barEmpty = "░"
)

// RenderChart draws a chart as one block of horizontal bars per column.
func RenderChart(chart analysis.Chart, title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(TitleStyle.Render(ChartIcon + " " + title))
		b.WriteString("\n")
	}

	if len(chart.Bars) == 0 {
		b.WriteString(SubtleStyle.Render("No data for the selected filters"))
		return b.String()
	}

	limit := chartLimit(chart)
	if chart.Scale != nil {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("Scale: %.2f to %.2f", chart.Scale.Min, chart.Scale.Max)))
		b.WriteString("\n")
	}

	nameWidth := 0
	for _, s := range chart.Series {
		nameWidth = max(nameWidth, lipgloss.Width(s))
	}

	for _, x := range chart.XValues {
		header := fmt.Sprintf("%s  %s", x, formatValue(chart.ColumnTotal(x), chart.Aggregation))
		b.WriteString("\n")
		b.WriteString(BoldStyle.Render(header))
		b.WriteString("\n")

		for i, s := range chart.Series {
			v, ok := chart.Value(x, s)
			if !ok {
				continue
			}
			style := lipgloss.NewStyle().Foreground(SeriesColors[i%len(SeriesColors)])
			fmt.Fprintf(&b, "  %s %s %s\n",
				padRight(s, nameWidth),
				style.Render(bar(v, limit)),
				formatValue(v, chart.Aggregation))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// chartLimit is the magnitude drawn as a full bar.
func chartLimit(chart analysis.Chart) float64 {
	if chart.Scale != nil {
		return math.Max(math.Abs(chart.Scale.Min), math.Abs(chart.Scale.Max))
	}
	limit := 0.0
	for _, bar := range chart.Bars {
		limit = math.Max(limit, math.Abs(bar.Value))
	}
	return limit
}

func bar(v, limit float64) string {
	if limit <= 0 {
		return strings.Repeat(barEmpty, BarWidth)
	}
	filled := int(math.Round(math.Abs(v) / limit * BarWidth))
	if filled == 0 && v != 0 {
		filled = 1
	}
	filled = min(filled, BarWidth)
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, BarWidth-filled)
}

func formatValue(v float64, aggregation analysis.Aggregation) string {
	if aggregation == analysis.AggregationCount {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// RenderComparison draws the year-over-year expense comparison.
func RenderComparison(deltas []analysis.Delta, baseYear, compareYear int) string {
	title := TitleStyle.Render(fmt.Sprintf("%s Expenses %d vs %d", ChartIcon, compareYear, baseYear))
	if len(deltas) == 0 {
		return title + "\n" + SubtleStyle.Render("No expenses in either year")
	}

	headers := []string{"Category", fmt.Sprint(baseYear), fmt.Sprint(compareYear), "Delta", "Delta %"}
	rows := make([][]string, 0, len(deltas))
	styles := make([]lipgloss.Style, 0, len(deltas))
	for _, d := range deltas {
		pct := "n/a"
		if d.HasPct() {
			pct = fmt.Sprintf("%+.1f%%", d.DeltaPct)
		}
		rows = append(rows, []string{
			d.Pivot,
			fmt.Sprintf("%.2f", d.Base),
			fmt.Sprintf("%.2f", d.Compare),
			fmt.Sprintf("%+.2f", d.Delta),
			pct,
		})
		if d.Color == analysis.ColorOverspent {
			styles = append(styles, OverspentStyle)
		} else {
			styles = append(styles, SavedStyle)
		}
	}

	return title + "\n" + renderTable(headers, rows, func(row, col int) lipgloss.Style {
		if col >= 3 {
			return styles[row]
		}
		return lipgloss.NewStyle()
	})
}

// RenderRecords draws records as a table. A limit of zero or less shows every record.
func RenderRecords(records []model.Record, limit int) string {
	if len(records) == 0 {
		return SubtleStyle.Render("No records")
	}

	shown := records
	if limit > 0 && len(records) > limit {
		shown = records[:limit]
	}

	headers := []string{"ID", "Date", "Bank", "Label", "Amount", "Real", "Shared", "Main", "Category"}
	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{
			fmt.Sprint(r.ID),
			r.Date,
			r.BankName,
			truncate(r.Label, 32),
			fmt.Sprintf("%.2f", r.Amount),
			fmt.Sprintf("%.2f", r.RealAmount),
			r.Shared,
			r.MainCategory,
			r.CategoryName,
		})
	}

	out := renderTable(headers, rows, nil)
	if len(shown) < len(records) {
		out += "\n" + SubtleStyle.Render(fmt.Sprintf("... and %d more records", len(records)-len(shown)))
	}
	return out
}

// RenderCorrections lists a correction set in application order.
func RenderCorrections(s *correction.Set) string {
	if s.Len() == 0 {
		return SubtleStyle.Render("No corrections")
	}

	headers := []string{"#", "Class", "Parameters", "Comments"}
	rows := make([][]string, 0, s.Len())
	for i, c := range s.Corrections() {
		var parts []string
		comment := ""
		for _, p := range correction.Encode(c) {
			switch p.Key {
			case correction.ClassKey:
			case "comments":
				if note, ok := p.Value.(string); ok {
					comment = note
				}
			default:
				parts = append(parts, fmt.Sprintf("%s=%v", p.Key, p.Value))
			}
		}
		rows = append(rows, []string{fmt.Sprint(i), string(c.Kind()), strings.Join(parts, " "), truncate(comment, 40)})
	}
	return renderTable(headers, rows, nil)
}

// RenderFindings lists lint findings, one per line.
func RenderFindings(findings []correction.Finding) string {
	if len(findings) == 0 {
		return FormatSuccess("No problems found")
	}

	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		msg := fmt.Sprintf("#%d %s: %s", f.Index, f.Kind, f.Message)
		if f.Suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", f.Suggestion)
		}
		if f.Severity == correction.SeverityError {
			lines = append(lines, FormatError(msg))
		} else {
			lines = append(lines, FormatWarning(msg))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderRuns draws the correction run log.
func RenderRuns(runs []model.CorrectionRun) string {
	if len(runs) == 0 {
		return SubtleStyle.Render("No correction runs recorded")
	}

	headers := []string{"Applied", "Run", "Source", "Hash", "Corrections", "Rows"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.AppliedAt.Local().Format("2006-01-02 15:04"),
			truncate(r.ID, 8),
			r.Source,
			truncate(r.CorrectionsHash, 12),
			fmt.Sprint(r.CorrectionsCount),
			fmt.Sprintf("%d → %d", r.RowsBefore, r.RowsAfter),
		})
	}
	return renderTable(headers, rows, nil)
}

// RenderSnapshots draws the stored snapshots.
func RenderSnapshots(snapshots []model.Snapshot) string {
	if len(snapshots) == 0 {
		return SubtleStyle.Render("No snapshots stored")
	}

	headers := []string{"Source", "Rows", "Corrections", "Saved"}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		hash := "uncorrected"
		if s.CorrectionsHash != "" {
			hash = truncate(s.CorrectionsHash, 12)
		}
		rows = append(rows, []string{
			s.Source,
			fmt.Sprint(s.RowCount),
			hash,
			s.SavedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return renderTable(headers, rows, nil)
}

// renderTable lays out rows in padded columns. cellStyle may be nil.
func renderTable(headers []string, rows [][]string, cellStyle func(row, col int) lipgloss.Style) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = padRight(h, widths[i])
	}
	header := strings.Join(cells, "  ")

	lines := []string{
		SubtleStyle.Bold(true).Render(header),
		SubtleStyle.Render(strings.Repeat("─", lipgloss.Width(header))),
	}
	for r, row := range rows {
		for i, cell := range row {
			cells[i] = padRight(cell, widths[i])
			if cellStyle != nil {
				cells[i] = cellStyle(r, i).Render(cells[i])
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
