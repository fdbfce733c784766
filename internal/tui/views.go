package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/expense-analysis/internal/cli"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderStatusBar(),
		m.help.View(m.keymap),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the active options.
func (m Model) renderHeader() string {
	field := func(label, value string) string {
		return m.theme.Label.Render(label+": ") + m.theme.Value.Render(value)
	}

	return strings.Join([]string{
		field("Category", m.opts.Category),
		field("Aggregation", string(m.opts.Aggregation)),
		field("Shared", string(m.opts.Shared)),
		field("Display", string(m.opts.Temporal)),
	}, "   ")
}

// renderBody renders the scrollable chart and comparison.
func (m Model) renderBody() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render(m.lastError.Error())
	}

	parts := []string{cli.RenderChart(m.chart, m.chartTitle())}
	if m.showComparison {
		parts = append(parts, "", cli.RenderComparison(m.deltas, m.config.BaseYear, m.config.CompareYear))
	}
	return strings.Join(parts, "\n")
}

// renderStatusBar shows the dataset and scroll position.
func (m Model) renderStatusBar() string {
	source := m.config.Source
	if source == "" {
		source = "records"
	}
	status := fmt.Sprintf("%s · %d rows · %d series · %3.0f%%",
		source,
		len(m.config.Records),
		len(m.chart.Series),
		m.viewport.ScrollPercent()*100)
	return m.theme.StatusBar.Render(status)
}
