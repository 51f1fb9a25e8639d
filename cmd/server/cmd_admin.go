// cmd/server/cmd_admin.go
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yahiawalid23/HEPTA/internal/bootstrap"
	"github.com/yahiawalid23/HEPTA/internal/config"
	"github.com/yahiawalid23/HEPTA/internal/models"
)

// bootApp loads config and wires the application without an HTTP server.
func bootApp(ctx context.Context) (*bootstrap.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return bootstrap.New(ctx, cfg, bootstrap.NewLogger(cfg))
}

// storefront import-products <file.xlsx>
var importProductsCmd = &cobra.Command{
	Use:   "import-products <file.xlsx>",
	Short: "Replace the product catalog with a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		app, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.Catalog.ImportProducts(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products\n", result.Count)
		for _, id := range result.DuplicateIDs {
			fmt.Fprintf(cmd.OutOrStdout(), "  duplicate id: %s\n", id)
		}
		return nil
	},
}

// storefront export products|orders [-o file]
var exportCmd = &cobra.Command{
	Use:       "export products|orders",
	Short:     "Download the authoritative products or orders spreadsheet",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"products", "orders"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		var data []byte
		switch args[0] {
		case "products":
			data, err = app.Catalog.ExportProducts(ctx)
		case "orders":
			data, err = app.Ordering.ExportOrders(ctx)
		default:
			return fmt.Errorf("unknown collection %q", args[0])
		}
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = args[0] + ".xlsx"
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

// storefront reset-orders --yes
var resetOrdersCmd = &cobra.Command{
	Use:   "reset-orders",
	Short: "Delete every order",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to delete all orders without --yes")
		}

		ctx := cmd.Context()
		app, err := bootApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.Ordering.ResetOrders(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All orders deleted")
		return nil
	},
}

// storefront hash-password <password>
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for ADMIN_PASS_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := models.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default <collection>.xlsx)")
	resetOrdersCmd.Flags().Bool("yes", false, "confirm deleting every order")
}
