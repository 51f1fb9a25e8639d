// cmd/server/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Bilingual storefront API and back-office tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(importProductsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetOrdersCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}
