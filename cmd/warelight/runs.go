package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/warelight/warelight/internal/cli"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show run history",
		Long:  `Show past classification runs and estimate audit snapshots.`,
	}

	cmd.AddCommand(classifyRunsCmd())
	cmd.AddCommand(estimateRunsCmd())

	return cmd
}

func classifyRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "List recent classification runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			runs, err := store.ListClassificationRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(cli.FormatInfo("No classification runs recorded."))
				return nil
			}

			fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf(
				"%-5s %-20s %-10s %-9s %8s %8s %8s %8s",
				"ID", "STARTED", "RUN BY", "THRESHOLD", "SCANNED", "UPDATED", "REVIEW", "FAILED")))
			for _, run := range runs {
				fmt.Printf("%-5d %-20s %-10s %-9d %8d %8d %8d %8d\n",
					run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.RunBy,
					run.Threshold, run.ItemsScanned, run.ItemsUpdated,
					run.ItemsNeedReview, run.ItemsFailed)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum runs to show")
	return cmd
}

func estimateRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [order-number]",
		Short: "List recent estimate audit snapshots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			orderNumber := ""
			if len(args) > 0 {
				orderNumber = args[0]
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

			runs, err := store.ListEstimateRuns(ctx, orderNumber, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println(cli.FormatInfo("No estimate runs recorded."))
				return nil
			}

			fmt.Println(cli.TableHeaderStyle.Render(fmt.Sprintf(
				"%-5s %-12s %-20s %-4s %9s %9s %9s %9s",
				"ID", "ORDER", "CREATED", "REV", "TRAVEL", "PICK", "PACK", "TOTAL")))
			for _, run := range runs {
				fmt.Printf("%-5d %-12s %-20s %-4d %8.1fs %8.1fs %8.1fs %8.1fs\n",
					run.ID, run.OrderNumber, run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.ParamsRevision, run.TravelSeconds, run.PickSeconds,
					run.PackSeconds, run.TotalSeconds)
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "Maximum runs to show")
	return cmd
}
