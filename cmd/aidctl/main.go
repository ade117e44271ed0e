package main

import (
	"os"

	"github.com/spf13/cobra"

	"aidengine/internal/eligibility"
	"aidengine/internal/eligibility/catalogfile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries flags shared by every subcommand.
type app struct {
	catalogPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "aidctl",
		Short:        "Estimate financial aid for children's activities",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "YAML catalog replacing the built-in programs")

	rootCmd.AddCommand(a.quickCmd())
	rootCmd.AddCommand(a.fullCmd())
	rootCmd.AddCommand(a.explainCmd())
	rootCmd.AddCommand(a.visibilityCmd())
	rootCmd.AddCommand(a.catalogCmd())
	rootCmd.AddCommand(bandsCmd())
	return rootCmd
}

func (a *app) catalog() (*eligibility.Catalog, error) {
	if a.catalogPath == "" {
		return eligibility.DefaultCatalog(), nil
	}
	return catalogfile.Load(a.catalogPath)
}

func (a *app) engine() (*eligibility.Engine, error) {
	catalog, err := a.catalog()
	if err != nil {
		return nil, err
	}
	return eligibility.NewEngine(catalog), nil
}
