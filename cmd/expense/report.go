package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/cli"
	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/config"
	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
)

// viewFlags are the chart options shared by report and dashboard.
type viewFlags struct {
	category    string
	aggregation string
	shared      string
	temporal    string
	months      []int
	allMonths   bool
	snapshot    bool
}

func (f *viewFlags) register(cmd *cobra.Command) {
	defaults := analysis.DefaultOptions()
	cmd.Flags().StringVar(&f.category, "category", defaults.Category, "main category, or ALL")
	cmd.Flags().StringVar(&f.aggregation, "aggregation", string(defaults.Aggregation), "count or sum")
	cmd.Flags().StringVar(&f.shared, "shared", string(defaults.Shared), "include, exclude, only or differentiate")
	cmd.Flags().StringVar(&f.temporal, "temporal", string(defaults.Temporal), "daily, weekly or monthly")
	cmd.Flags().IntSliceVar(&f.months, "months", nil, "months to keep (default: report.months)")
	cmd.Flags().BoolVar(&f.allMonths, "all-months", false, "ignore the month filter")
	cmd.Flags().BoolVar(&f.snapshot, "snapshot", false, "use the stored snapshot instead of re-applying corrections")
}

// options builds validated analysis options from the flags and settings.
func (f *viewFlags) options(settings *config.Settings) (analysis.Options, error) {
	shared, err := analysis.ParseSharedMode(f.shared)
	if err != nil {
		return analysis.Options{}, common.NewUserError("invalid --shared", err)
	}

	opts := analysis.Options{
		Category:    f.category,
		Aggregation: analysis.Aggregation(f.aggregation),
		Shared:      shared,
		Temporal:    analysis.Temporal(f.temporal),
		Months:      settings.Report.Months,
	}
	if len(f.months) > 0 {
		opts.Months = f.months
	}
	if f.allMonths {
		opts.Months = nil
	}

	if err := opts.Validate(); err != nil {
		return analysis.Options{}, common.NewUserError("invalid chart options", err)
	}
	return opts, nil
}

// records returns the corrected records, from storage or recomputed.
func (f *viewFlags) records(ctx context.Context, settings *config.Settings) ([]model.Record, error) {
	if f.snapshot {
		return loadSnapshotRecords(ctx, settings, settings.DataPath)
	}
	records, _, err := loadCorrected(ctx, settings)
	if err != nil {
		return nil, err
	}
	return records.Records(), nil
}

func reportCmd() *cobra.Command {
	var (
		flags      viewFlags
		exportPath string
		showRows   int
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the corrected expense chart and the year comparison",
		Args:  cobra.NoArgs,
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

			rows := analysis.Reshape(records, opts)
			chart := analysis.BuildChart(rows, opts)
			deltas := analysis.CompareYears(rows, settings.Report.BaseYear, settings.Report.CompareYear)

			out := cmd.OutOrStdout()
			title := fmt.Sprintf("Expenses by %s (%s, %s)", opts.Temporal, opts.Category, opts.Aggregation)
			fmt.Fprintln(out, cli.RenderChart(chart, title))
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.RenderComparison(deltas, settings.Report.BaseYear, settings.Report.CompareYear))

			if showRows > 0 {
				shown := make([]model.Record, 0, len(rows))
				for _, r := range rows {
					shown = append(shown, r.Record)
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, cli.RenderRecords(shown, showRows))
			}

			if exportPath != "" {
				if err := dataset.WriteFile(config.ExpandPath(exportPath), records); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Exported corrected data to "+exportPath))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&exportPath, "export", "", "write the corrected data as CSV")
	cmd.Flags().IntVar(&showRows, "rows", 0, "also list up to this many of the charted rows")

	return cmd
}
