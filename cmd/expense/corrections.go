package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/expense-analysis/internal/analysis"
	"github.com/Veraticus/expense-analysis/internal/cli"
	"github.com/Veraticus/expense-analysis/internal/common"
	"github.com/Veraticus/expense-analysis/internal/config"
	"github.com/Veraticus/expense-analysis/internal/correction"
	"github.com/Veraticus/expense-analysis/internal/dataset"
	"github.com/Veraticus/expense-analysis/internal/model"
)

func correctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Inspect, extend and apply the correction rules",
		Long: `Corrections are an ordered list of rules stored as JSON next to the data.
They fix categories and dates of exported transactions and drop unwanted rows.`,
	}

	cmd.AddCommand(showCorrectionsCmd())
	cmd.AddCommand(verifyCorrectionsCmd())
	cmd.AddCommand(lintCorrectionsCmd())
	cmd.AddCommand(applyCorrectionsCmd())
	cmd.AddCommand(addLabelCorrectionCmd())
	cmd.AddCommand(addCategoryCorrectionCmd())
	cmd.AddCommand(addDateCorrectionCmd())
	cmd.AddCommand(dropRowCorrectionCmd())

	return cmd
}

func showCorrectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the correction rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			doc, err := loadCorrections(settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d corrections in %s", doc.Set.Len(), settings.CorrectionsPath)))
			fmt.Fprintln(out, cli.RenderCorrections(doc.Set))
			fmt.Fprintln(out)
			fmt.Fprintln(out, cli.SubtleStyle.Render("hash "+doc.Set.Hash()))
			if !doc.HashMatches() {
				fmt.Fprintln(out, cli.FormatWarning("stored hash "+doc.StoredHash+" does not match"))
			}
			return nil
		},
	}
}

func verifyCorrectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the corrections file and that every rule applies to the data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			doc, err := loadCorrections(settings)
			if err != nil {
				return err
			}
			records, err := loadData(cmd.Context(), settings)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if doc.HashMatches() {
				fmt.Fprintln(out, cli.FormatSuccess("Stored hash matches "+doc.StoredHash))
			} else {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Stored hash %s differs from computed %s", doc.StoredHash, doc.Set.Hash())))
			}

			before := records.Len()
			if err := doc.Set.Apply(records); err != nil {
				return common.NewUserError("corrections do not apply to this data", err)
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("All %d corrections apply (%d → %d rows)", doc.Set.Len(), before, records.Len())))
			return nil
		},
	}
}

func lintCorrectionsCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Look for suspicious correction rules",
		Long: `Report rules that can never apply, rules overwritten by later ones, and category
names that are not used anywhere in the data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			doc, err := loadCorrections(settings)
			if err != nil {
				return err
			}

			var known []string
			if !offline {
				records, err := loadData(cmd.Context(), settings)
				if err != nil {
					return err
				}
				known = analysis.KnownCategories(records.Records())
			}

			findings := correction.Lint(doc.Set, known)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderFindings(findings))

			for _, f := range findings {
				if f.Severity == correction.SeverityError {
					return common.NewUserError("corrections contain errors", nil)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip loading the data, do not check category names")

	return cmd
}

func applyCorrectionsCmd() *cobra.Command {
	var (
		dryRun     bool
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the corrections and store the corrected snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Apply")
			ctx := interrupts.HandleInterrupts(cmd.Context(), "The previous snapshot was left untouched.")
			defer interrupts.Stop()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			records, err := loadData(ctx, settings)
			if err != nil {
				return err
			}
			doc, err := loadCorrections(settings)
			if err != nil {
				return err
			}

			run := &model.CorrectionRun{
				Source:           settings.DataPath,
				CorrectionsHash:  doc.Set.Hash(),
				CorrectionsCount: doc.Set.Len(),
				RowsBefore:       records.Len(),
			}
			if err := doc.Set.Apply(records); err != nil {
				common.LogError(err, "Correction failed", common.Fields{
					"source": run.Source,
					"hash":   run.CorrectionsHash,
				})
				return common.NewUserError("corrections do not apply to this data", err)
			}
			run.RowsAfter = records.Len()
			common.LogDebug("Corrections applied", common.Fields{
				"corrections": run.CorrectionsCount,
				"rows_before": run.RowsBefore,
				"rows_after":  run.RowsAfter,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Applied %d corrections: %d rows, %d dropped",
				run.CorrectionsCount, run.RowsAfter, run.RowsDropped())))

			if exportPath != "" {
				if err := dataset.WriteFile(config.ExpandPath(exportPath), records.Records()); err != nil {
					return err
				}
				fmt.Fprintln(out, cli.FormatSuccess("Exported corrected data to "+exportPath))
			}

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo("Dry run, nothing stored"))
				return nil
			}

			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if last, err := store.LatestRun(ctx, run.Source); err == nil {
				if last.CorrectionsHash == run.CorrectionsHash {
					fmt.Fprintln(out, cli.FormatInfo("Corrections unchanged since the last run"))
				} else {
					fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Corrections changed since the last run (%d → %d rules)",
						last.CorrectionsCount, run.CorrectionsCount)))
				}
			}

			bar := cli.NewProgressBar(cmd.ErrOrStderr(), records.Len(), "Saving snapshot...")
			snap := model.Snapshot{Source: run.Source, CorrectionsHash: run.CorrectionsHash}
			if err := store.SaveSnapshot(ctx, snap, records.Records(), cli.ProgressFunc(bar)); err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}
			if err := store.RecordRun(ctx, run); err != nil {
				return err
			}
			common.LogInfo("Recorded correction run", common.Fields{
				"id":     run.ID,
				"source": run.Source,
				"hash":   run.CorrectionsHash,
			})

			fmt.Fprintln(out, cli.FormatSuccess("Recorded run "+run.ID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "apply without storing the snapshot or the run")
	cmd.Flags().StringVar(&exportPath, "export", "", "also write the corrected data as CSV")

	return cmd
}

// appendCorrection adds c to the configured corrections file and saves it.
func appendCorrection(cmd *cobra.Command, c correction.Correction) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	set, err := loadCorrectionsOrEmpty(settings)
	if err != nil {
		return err
	}

	set.Append(c)
	if err := set.WriteFile(settings.CorrectionsPath); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s as correction #%d (hash %s)",
		c.Kind(), set.Len()-1, set.Hash())))
	return nil
}

func commentFlag(cmd *cobra.Command) *string {
	if !cmd.Flags().Changed("comment") {
		return nil
	}
	comment, _ := cmd.Flags().GetString("comment")
	return correction.Note(comment)
}

func parseLocID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, common.NewUserError(fmt.Sprintf("row id must be a non-negative integer, got %q", arg), err)
	}
	return id, nil
}

func addLabelCorrectionCmd() *cobra.Command {
	var toLower bool

	cmd := &cobra.Command{
		Use:   "add-label <contains> <category>",
		Short: "Set the category of every transaction whose label contains a substring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return appendCorrection(cmd, correction.CategoryWhereLabelContains{
				Contains:     args[0],
				ToLower:      toLower,
				CorrectValue: args[1],
				Comments:     commentFlag(cmd),
			})
		},
	}

	cmd.Flags().BoolVarP(&toLower, "ignore-case", "i", false, "match case-insensitively")
	cmd.Flags().String("comment", "", "note stored with the rule")

	return cmd
}

func addCategoryCorrectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-category <row> <category>",
		Short: "Set the category of one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocID(args[0])
			if err != nil {
				return err
			}
			return appendCorrection(cmd, correction.CategoryFromLoc{
				LocID:        id,
				CorrectValue: args[1],
				Comments:     commentFlag(cmd),
			})
		},
	}

	cmd.Flags().String("comment", "", "note stored with the rule")

	return cmd
}

func addDateCorrectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-date <row> <date>",
		Short: "Set the date of one row",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocID(args[0])
			if err != nil {
				return err
			}
			return appendCorrection(cmd, correction.DateFromLoc{
				LocID:        id,
				CorrectValue: args[1],
				Comments:     commentFlag(cmd),
			})
		},
	}

	cmd.Flags().String("comment", "", "note stored with the rule")

	return cmd
}

func dropRowCorrectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drop <row>",
		Short: "Drop one row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLocID(args[0])
			if err != nil {
				return err
			}
			return appendCorrection(cmd, correction.RowDropping{
				LocID:    id,
				Comments: commentFlag(cmd),
			})
		},
	}

	cmd.Flags().String("comment", "", "note stored with the rule")

	return cmd
}
