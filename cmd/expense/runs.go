package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-analysis/internal/cli"
	"github.com/Veraticus/expense-analysis/internal/common"
)

func runsCmd() *cobra.Command {
	var (
		source string
		all    bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show the history of applied corrections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if source == "" && !all {
				source = settings.DataPath
			}
			runs, err := store.ListRuns(ctx, source, limit)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRuns(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "data source (default: data.path)")
	cmd.Flags().BoolVar(&all, "all", false, "show runs for every source")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs, 0 for all")

	return cmd
}

func snapshotsCmd() *cobra.Command {
	var remove string

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List or delete stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if remove != "" {
				if err := store.DeleteSnapshot(ctx, remove); err != nil {
					if errors.Is(err, common.ErrNotFound) {
						return common.NewUserError("no snapshot named "+remove, err)
					}
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Deleted snapshot "+remove))
				return nil
			}

			snapshots, err := store.ListSnapshots(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cli.RenderSnapshots(snapshots))
			return nil
		},
	}

	cmd.Flags().StringVar(&remove, "delete", "", "delete the named snapshot")

	return cmd
}
