package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/testutil"
)

func testRecords(t *testing.T) []model.Record {
	return testutil.NewRecordBuilder(t).
		Add("2022-04-02", "RESTO", -40).In("dailyLife", "restaurant").
		Add("2024-04-03", "RESTO", -120).In("dailyLife", "restaurant").Shared().
		Add("2024-05-10", "TRAIN", -80).In("transport", "train").
		Build()
}

func newTestModel(t *testing.T) Model {
	cfg := defaultConfig()
	cfg.Records = testRecords(t)
	cfg.Source = "test.csv"
	return New(cfg)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		var ok bool
		m, ok = updated.(Model)
		require.True(t, ok)
	}
	return m
}

func TestNew_DefaultOptions(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, analysis.DefaultOptions(), m.Options())
	assert.Equal(t, []string{"dailyLife", "transport"}, m.chart.Series)
	assert.Len(t, m.deltas, 2)
}

func TestUpdate_CyclesOptions(t *testing.T) {
	tests := []struct {
		check func(t *testing.T, opts analysis.Options)
		name  string
		keys  []string
	}{
		{
			name: "aggregation",
			keys: []string{"a"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.AggregationCount, opts.Aggregation)
			},
		},
		{
			name: "aggregation wraps",
			keys: []string{"a", "a"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.AggregationSum, opts.Aggregation)
			},
		},
		{
			name: "shared mode",
			keys: []string{"s", "s"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.SharedOnly, opts.Shared)
			},
		},
		{
			name: "temporal",
			keys: []string{"t"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.TemporalDaily, opts.Temporal)
			},
		},
		{
			name: "next category",
			keys: []string{"right"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.MotherCategories[1], opts.Category)
			},
		},
		{
			name: "previous category wraps",
			keys: []string{"left"},
			check: func(t *testing.T, opts analysis.Options) {
				assert.Equal(t, analysis.MotherCategories[len(analysis.MotherCategories)-1], opts.Category)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, newTestModel(t), tt.keys...)
			tt.check(t, m.Options())
		})
	}
}

func TestUpdate_CategoryChangesPivot(t *testing.T) {
	m := newTestModel(t)
	for m.Options().Category != "dailyLife" {
		m = press(t, m, "right")
	}

	assert.Equal(t, []string{"restaurant"}, m.chart.Series)
	require.NotNil(t, m.chart.Scale)
	assert.Contains(t, m.View(), "Expenses sum for dailyLife (monthly)")
}

func TestUpdate_DifferentiateSplitsShared(t *testing.T) {
	m := press(t, newTestModel(t), "s", "s", "s")

	assert.Equal(t, analysis.SharedDifferentiate, m.Options().Shared)
	assert.Contains(t, m.chart.Series, "dailyLife-perso")
	assert.Contains(t, m.chart.Series, "dailyLife-share")
}

func TestUpdate_ToggleComparison(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.renderBody(), "Expenses 2024 vs 2022")

	m = press(t, m, "c")
	assert.NotContains(t, m.renderBody(), "Expenses 2024 vs 2022")
}

func TestUpdate_ToggleHelp(t *testing.T) {
	m := newTestModel(t)
	before := m.viewport.Height

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Less(t, m.viewport.Height, before)
	assert.Contains(t, m.View(), "year comparison")
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.View())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	resized, ok := updated.(Model)
	require.True(t, ok)
	assert.Equal(t, 120, resized.viewport.Width)
	assert.Equal(t, 36, resized.viewport.Height)
}

func TestView_ShowsHeaderAndStatus(t *testing.T) {
	view := newTestModel(t).View()

	assert.Contains(t, view, "Category: ALL")
	assert.Contains(t, view, "Shared: include")
	assert.Contains(t, view, "test.csv · 3 rows · 2 series")
}

func TestInvalidOptionsShowError(t *testing.T) {
	cfg := defaultConfig()
	cfg.Records = testRecords(t)
	cfg.Options.Category = "nope"

	m := New(cfg)

	assert.Contains(t, m.renderBody(), "nope")
	assert.Empty(t, m.chart.Bars)
}
