package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warelight/warelight/internal/classify"
	"github.com/warelight/warelight/internal/cli"
	"github.com/warelight/warelight/internal/common"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify warehouse items",
		Long: `Classify every active item by its handling attributes.

Manual overrides always win, then category defaults, then computed rules
that clear the confidence threshold. Ambiguous attributes are left unset
and the item lands in the review queue.

Examples:
  warelight classify                  # Classify with stored settings
  warelight classify --threshold 75   # Stricter confidence gate
  warelight classify --dry-run        # Preview without saving`,
		RunE: runClassify,
	}

	cmd.Flags().IntP("threshold", "t", 0, "Confidence threshold (0 = use default)")
	cmd.Flags().Bool("summer", false, "Force summer mode for this run")
	cmd.Flags().Bool("dry-run", false, "Preview without saving changes")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("classification.threshold", cmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("classification.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	threshold := viper.GetInt("classification.threshold")
	dryRun := viper.GetBool("classification.dry_run")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	summerMode, err := store.GetSummerMode(ctx)
	if err != nil {
		return fmt.Errorf("failed to read summer mode: %w", err)
	}
	if cmd.Flags().Changed("summer") {
		summerMode, _ = cmd.Flags().GetBool("summer")
	}

	var bar *progressbar.ProgressBar
	engine, err := classify.New(store, classify.Config{
		RunBy:      os.Getenv("USER"),
		Threshold:  threshold,
		SummerMode: summerMode,
		DryRun:     dryRun,
		OnItem: func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Classifying items..."),
				)
			}
			_ = bar.Set(done)
		},
	})
	if err != nil {
		return err
	}

	run, err := engine.Run(ctx)
	if errors.Is(err, common.ErrNoItems) {
		fmt.Println(cli.FormatInfo("No active items to classify."))
		return nil
	}
	if err != nil {
		return common.NewUserError("classification failed", err)
	}
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	summary := fmt.Sprintf("%d scanned, %d updated, %d need review, %d failed",
		run.ItemsScanned, run.ItemsUpdated, run.ItemsNeedReview, run.ItemsFailed)
	if dryRun {
		fmt.Println(cli.FormatInfo("Dry run: " + summary))
	} else {
		fmt.Println(cli.FormatSuccess("Classification complete: " + summary))
	}
	if run.ItemsNeedReview > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"%d items need review. Run: warelight review", run.ItemsNeedReview)))
	}

	return nil
}
