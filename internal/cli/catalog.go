package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the product catalog",
	}
	cmd.AddCommand(newCatalogListCmd(), newCatalogFetchCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var (
		src    catalogFlags
		query  string
		tag    string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := src.load(cmd.Context())
			if catalog == nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (%v)\n", core.SyncAdvisory, err)
			}

			products, err := core.FilterByTag(catalog.Products(), tag)
			if err != nil {
				return fmt.Errorf("%w %q, expected one of %v", err, tag, core.CatalogTags)
			}
			products = core.Filter(products, query)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(products)
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVarP(&query, "query", "q", "", "substring of name, SKU or description")
	cmd.Flags().StringVar(&tag, "tag", "", "brand or compatibility tag")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printProducts(w io.Writer, products []core.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SKU\tNOMBRE\tPRECIO FINAL\tSTOCK\tESTADO")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, core.FormatARS(p.GrossUnitPrice()), p.Stock, p.StockLabel())
	}
	fmt.Fprintf(tw, "\n%d productos\n", len(products))
	return tw.Flush()
}

func newCatalogFetchCmd() *cobra.Command {
	var src catalogFlags
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the remote catalog once and report the result",
		Long: `fetch downloads the published CSV the way the server refresher does and
fails when the storefront would fall back to the bundled catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if src.url == "" {
				return fmt.Errorf("no catalog url: set --url or CATALOG_CSV_URL")
			}
			catalog, err := src.load(cmd.Context())
			if err != nil {
				return err
			}
			st := catalog.Status()
			fmt.Fprintf(cmd.OutOrStdout(), "%d productos, revisado %s\n", st.Products, core.FormatDate(st.LastSync))
			return nil
		},
	}
	src.register(cmd)
	return cmd
}
