// Package tui implements the interactive expense dashboard.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/tui/themes"
)

// Model holds the dashboard state.
type Model struct {
	theme          themes.Theme
	lastError      error
	help           help.Model
	viewport       viewport.Model
	config         Config
	keymap         KeyMap
	chart          analysis.Chart
	deltas         []analysis.Delta
	opts           analysis.Options
	width          int
	height         int
	showComparison bool
	quitting       bool
}

// New creates a dashboard model over the given configuration.
func New(cfg Config) Model {
	m := Model{
		theme:          cfg.Theme,
		help:           help.New(),
		config:         cfg,
		keymap:         DefaultKeyMap(),
		opts:           cfg.Options,
		width:          cfg.Width,
		height:         cfg.Height,
		showComparison: true,
	}
	m.viewport = viewport.New(m.width, m.bodyHeight())
	m.refresh()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = m.bodyHeight()
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.ToggleHelp):
			m.help.ShowAll = !m.help.ShowAll
			m.viewport.Height = m.bodyHeight()
			return m, nil
		case key.Matches(msg, m.keymap.NextCategory):
			m.opts.Category = analysis.Next(analysis.MotherCategories, m.opts.Category)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.PrevCategory):
			m.opts.Category = analysis.Prev(analysis.MotherCategories, m.opts.Category)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.Aggregation):
			m.opts.Aggregation = analysis.Next(analysis.Aggregations, m.opts.Aggregation)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.Shared):
			m.opts.Shared = analysis.Next(analysis.SharedModes, m.opts.Shared)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.Temporal):
			m.opts.Temporal = analysis.Next(analysis.Temporals, m.opts.Temporal)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keymap.Comparison):
			m.showComparison = !m.showComparison
			m.viewport.SetContent(m.renderBody())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Options returns the options currently displayed.
func (m Model) Options() analysis.Options {
	return m.opts
}

// refresh recomputes the chart and comparison for the current options.
func (m *Model) refresh() {
	if err := m.opts.Validate(); err != nil {
		m.lastError = err
		m.chart = analysis.Chart{}
		m.deltas = nil
	} else {
		m.lastError = nil
		rows := analysis.Reshape(m.config.Records, m.opts)
		m.chart = analysis.BuildChart(rows, m.opts)
		m.deltas = analysis.CompareYears(rows, m.config.BaseYear, m.config.CompareYear)
	}
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoTop()
}

// bodyHeight is the viewport height left after the header, status bar and help.
func (m Model) bodyHeight() int {
	reserved := 4
	if m.help.ShowAll {
		reserved += len(m.keymap.FullHelp()) + 1
	}
	return max(m.height-reserved, 1)
}

// chartTitle describes the chart for the current options.
func (m Model) chartTitle() string {
	title := "Expenses " + string(m.opts.Aggregation)
	if m.opts.Category != analysis.CategoryAll {
		title += " for " + m.opts.Category
	}
	return title + " (" + string(m.opts.Temporal) + ")"
}

var _ tea.Model = Model{}
