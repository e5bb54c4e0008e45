package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/warelight/warelight/internal/cli"
	"github.com/warelight/warelight/internal/params"
)

func paramsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Manage cost parameters",
		Long: `Inspect and update the cost parameters that drive time estimation.
Parameters are stored as versioned revisions; every estimate records the
revision it used, so old estimates stay reproducible.`,
	}

	cmd.AddCommand(paramsShowCmd())
	cmd.AddCommand(paramsSetCmd())
	cmd.AddCommand(summerCmd())

	return cmd
}

func paramsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active cost parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			p, revision, err := store.GetCostParameters(ctx)
			if err != nil {
				return err
			}

			document, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal parameters: %w", err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Cost parameters (revision %d)", revision)))
			fmt.Println(string(document))
			return nil
		},
	}
}

func paramsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <file.json>",
		Short: "Store a new cost parameter revision",
		Long: `Validate a parameter document and store it as a new revision. The
document must carry travel, pick and pack sections; an invalid document is
rejected outright so a bad deploy can never poison estimates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			p, err := params.Parse(data)
			if err != nil {
				return err
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

			revision, err := store.SaveCostParameters(ctx, p)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Stored cost parameters as revision %d", revision)))
			return nil
		},
	}
}

func summerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summer <on|off>",
		Short: "Toggle summer mode",
		Long: `Summer mode adds cooler-bag packing for heat-sensitive items and extra
handling time. It applies to both classification and estimation until
switched off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var enabled bool
			switch args[0] {
			case "on":
				enabled = true
			case "off":
				enabled = false
			default:
				return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
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

			if err := store.SetSummerMode(ctx, enabled); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Summer mode: %s", args[0])))
			return nil
		},
	}
}
