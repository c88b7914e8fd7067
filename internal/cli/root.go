// Package cli implements dispenserctl, the operator tool for the catalog and
// cart store.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/JonMunkholm/dispenser/internal/logging"
	"github.com/JonMunkholm/dispenser/internal/sheets"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the dispenserctl command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "dispenserctl",
		Short: "Operate the dispenser catalog and cart store",
		Long: `dispenserctl inspects the published product spreadsheet, builds order
messages exactly as the storefront does, runs the savings calculator and
maintains the cart store.

Settings come from the same environment variables as the server
(CATALOG_CSV_URL, CART_STORE, DATABASE_URL, ...).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(
		newCatalogCmd(),
		newQuoteCmd(),
		newSavingsCmd(),
		newCartsCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// catalogFlags selects where products come from.
type catalogFlags struct {
	url     string
	timeout time.Duration
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", os.Getenv("CATALOG_CSV_URL"), "published CSV export (default: $CATALOG_CSV_URL, bundled catalog when empty)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", sheets.DefaultTimeout, "download timeout")
}

// load returns a catalog refreshed from the remote source when one is set.
// The refresh error is returned alongside the catalog, which then holds the
// bundled fallback.
func (f *catalogFlags) load(ctx context.Context) (*core.Catalog, error) {
	if f.url == "" {
		return core.NewCatalog(nil, core.CatalogConfig{}), nil
	}
	src, err := sheets.New(sheets.Config{URL: f.url, Timeout: f.timeout, UserAgent: "dispenserctl"})
	if err != nil {
		return nil, err
	}
	catalog := core.NewCatalog(src, core.CatalogConfig{})
	return catalog, catalog.Refresh(ctx)
}
