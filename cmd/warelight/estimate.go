package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/warelight/warelight/internal/cli"
	"github.com/warelight/warelight/internal/common"
	"github.com/warelight/warelight/internal/estimate"
)

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [order-number]",
		Short: "Estimate order picking time",
		Long: `Estimate how long an order takes to pick and pack, using the stored
cost parameters and item classifications. The result is written back onto
the order and an audit snapshot is recorded.

Examples:
  warelight estimate SO-1042        # Estimate one order
  warelight estimate --all          # Estimate every order
  warelight estimate SO-1042 --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEstimate,
	}

	cmd.Flags().Bool("all", false, "Estimate every stored order")
	cmd.Flags().Int("limit", 0, "Maximum orders to estimate with --all (0 = no limit)")
	cmd.Flags().Bool("dry-run", false, "Compute without saving anything")
	cmd.Flags().String("reason", "cli", "Reason recorded on the audit snapshot")

	_ = viper.BindPFlag("estimation.limit", cmd.Flags().Lookup("limit"))

	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	all, _ := cmd.Flags().GetBool("all")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reason, _ := cmd.Flags().GetString("reason")
	limit := viper.GetInt("estimation.limit")

	if !all && len(args) == 0 {
		return fmt.Errorf("provide an order number or --all")
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

	runner, err := estimate.NewRunner(ctx, store, estimate.RunnerConfig{
		Reason: reason,
		DryRun: dryRun,
	})
	if err != nil {
		return err
	}

	if all {
		result, err := runner.EstimateAll(ctx, limit)
		if errors.Is(err, common.ErrNoOrders) {
			fmt.Println(cli.FormatInfo("No orders to estimate."))
			return nil
		}
		if err != nil {
			return common.NewUserError("batch estimation failed", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf(
			"Estimated %d orders, %d failures", len(result.Estimates), len(result.Failures))))
		for _, failure := range result.Failures {
			fmt.Println(cli.FormatError(fmt.Sprintf("  %s: %v", failure.OrderNumber, failure.Err)))
		}
		return nil
	}

	est, err := runner.EstimateAndStore(ctx, args[0])
	if err != nil {
		return common.NewUserError("estimation failed", err)
	}
	printEstimate(est)
	return nil
}

func printEstimate(est estimate.Estimate) {
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Order %s: %.1f minutes", est.OrderNumber, est.TotalMinutes)))
	fmt.Printf("  overhead  %7.1fs\n", est.OverheadSeconds)
	fmt.Printf("  travel    %7.1fs\n", est.TravelSeconds)
	fmt.Printf("  pick      %7.1fs\n", est.PickSeconds)
	fmt.Printf("  pack      %7.1fs\n", est.PackSeconds)
	fmt.Printf("  total     %7.1fs\n", est.TotalSeconds)
	if est.Travel.UnparsedStops > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf(
			"%d stops had unparseable locations", est.Travel.UnparsedStops)))
	}
	for _, line := range est.Lines {
		fmt.Printf("  %-12s %-10s x%-3d pick %6.1fs walk %6.1fs\n",
			line.ItemCode, line.Location, line.Quantity, line.PickSeconds, line.WalkSeconds)
	}
}
