package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-analysis/internal/tui"
	"github.com/Veraticus/expense-analysis/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	var (
		flags     viewFlags
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Explore the corrected expenses interactively",
		Long: `Open a terminal dashboard over the corrected expenses. Cycle the main category
with ←/→, the aggregation with a, the shared mode with s and the time axis with t.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			opts, err := flags.options(settings)
			if err != nil {
				return err
			}
			records, err := flags.records(cmd.Context(), settings)
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), records,
				tui.WithOptions(opts),
				tui.WithYears(settings.Report.BaseYear, settings.Report.CompareYear),
				tui.WithSource(settings.DataPath),
				tui.WithTheme(themes.ByName(themeName)),
			)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&themeName, "theme", "default", "color theme (default, catppuccin)")

	return cmd
}
