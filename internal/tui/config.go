package tui

import (
	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme       themes.Theme
	Source      string
	Records     []model.Record
	Options     analysis.Options
	BaseYear    int
	CompareYear int
	Width       int
	Height      int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:       themes.Default,
		Options:     analysis.DefaultOptions(),
		BaseYear:    2022,
		CompareYear: 2024,
		Width:       100,
		Height:      30,
	}
}

// WithTheme sets the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithOptions sets the initial chart options.
func WithOptions(opts analysis.Options) Option {
	return func(c *Config) {
		c.Options = opts
	}
}

// WithYears sets the years compared in the comparison panel.
func WithYears(base, compare int) Option {
	return func(c *Config) {
		c.BaseYear = base
		c.CompareYear = compare
	}
}

// WithSize sets the initial size used until the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithSource names the dataset shown in the status bar.
func WithSource(source string) Option {
	return func(c *Config) {
		c.Source = source
	}
}
