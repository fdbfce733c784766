package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/expense-analysis/internal/model"
)

// Run starts the dashboard over records and blocks until the user quits or ctx is canceled.
func Run(ctx context.Context, records []model.Record, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Records = records

	if err := cfg.Options.Validate(); err != nil {
		return err
	}

	program := tea.NewProgram(New(cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
