package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-analysis/internal/cli"
	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/config"
	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
	"github.com/Veraticus/expense-analysis/internal/ofx"
)

func importCmd() *cobra.Command {
	var (
		dryRun     bool
		verbose    bool
		source     string
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a transaction export or an OFX/QFX statement",
		Long: `Import transactions into a stored snapshot. Files ending in .ofx or .qfx are
read as bank statements, anything else as a semicolon-separated export.

Examples:
  # Snapshot the configured export
  expense import expenses-full-2022-2024.csv

  # Convert a bank statement into an export the corrections can target
  expense import ~/Downloads/statement.qfx --export statement.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import")
			ctx := interrupts.HandleInterrupts(cmd.Context(), "Nothing was stored, run the import again.")
			defer interrupts.Stop()

			path := config.ExpandPath(args[0])
			records, err := readImport(ctx, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Read %d transactions from %s", len(records), filepath.Base(path))))
			if verbose || dryRun {
				fmt.Fprintln(out, cli.RenderRecords(records, 20))
			}

			if exportPath != "" {
				if err := dataset.WriteFile(config.ExpandPath(exportPath), records); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Exported to "+exportPath))
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo("Dry run, nothing stored"))
				return nil
			}

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if source == "" {
				source = path
			}
			bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(records), "Saving transactions...")
			if err := store.SaveSnapshot(ctx, model.Snapshot{Source: source}, records, cli.ProgressFunc(bar)); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}

			fmt.Fprintln(out, cli.FormatSuccess("Stored snapshot "+source))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "preview import without saving")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the imported transactions")
	cmd.Flags().StringVar(&source, "source", "", "snapshot name (default: the file path)")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the transactions as CSV")

	return cmd
}

// readImport reads path as OFX/QFX or as a CSV export depending on its extension.
func readImport(ctx context.Context, path string) ([]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewUserError("could not open import file", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		records, err := ofx.NewParser().ParseFile(ctx, f)
		if err != nil {
			return nil, common.NewUserError("could not parse statement", err)
		}
		if len(records) == 0 {
			slog.Warn("No transactions found in file", "file", filepath.Base(path))
		}
		return records, nil
	default:
		records, err := dataset.Read(f)
		if err != nil {
			return nil, common.NewUserError("could not parse export", err)
		}
		return records, nil
	}
}
