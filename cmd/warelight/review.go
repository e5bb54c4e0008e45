package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warelight/warelight/internal/classify"
	"github.com/warelight/warelight/internal/cli"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review low-confidence classifications",
		Long: `Walk through items whose classification needs human attention and
record manual overrides. Overrides take effect on the next classification
run.

Examples:
  warelight review                  # Interactive review
  warelight review --list           # Just list the queue`,
		RunE: runReview,
	}

	cmd.Flags().IntP("threshold", "t", 0, "Confidence threshold (0 = use default)")
	cmd.Flags().Bool("list", false, "List the review queue without prompting")

	_ = viper.BindPFlag("review.threshold", cmd.Flags().Lookup("threshold"))

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	listOnly, _ := cmd.Flags().GetBool("list")
	threshold := viper.GetInt("review.threshold")
	if threshold == 0 {
		threshold = classify.DefaultThreshold
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if listOnly {
		items, err := store.GetItemsNeedingReview(ctx, threshold)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println(cli.FormatSuccess("Nothing to review."))
			return nil
		}
		fmt.Println(cli.FormatTitle(fmt.Sprintf("%d items need review", len(items))))
		for i := range items {
			item := &items[i]
			fmt.Printf("  %-12s %3d%%  %s\n", item.Code, item.Confidence, item.Name)
		}
		return nil
	}

	handler := cli.NewInterruptHandler(os.Stdout)
	ctx = handler.HandleInterrupts(ctx)

	reviewer := cli.NewReviewer(store, os.Stdin, os.Stdout, threshold)
	stats, err := reviewer.Run(ctx)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return err
	}
	if stats.Overridden > 0 {
		fmt.Println(cli.FormatInfo("Re-run classification to apply overrides: warelight classify"))
	}
	return nil
}
