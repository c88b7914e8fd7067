package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newSavingsCmd() *cobra.Command {
	def := core.DefaultSavingsInput()
	var bottle, bottles, kit, maintenance float64

	cmd := &cobra.Command{
		Use:   "savings",
		Short: "Compare bottled water with a mains-fed dispenser",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := core.CalculateSavings(core.SavingsInput{
				BottlePrice:     decimal.NewFromFloat(bottle),
				BottlesPerMonth: decimal.NewFromFloat(bottles),
				KitPrice:        decimal.NewFromFloat(kit),
				Maintenance:     decimal.NewFromFloat(maintenance),
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Gasto anual en bidones\t%s\n", core.FormatARSWhole(res.AnnualBottleCost))
			fmt.Fprintf(tw, "Primer año con red\t%s\n", core.FormatARSWhole(res.FirstYearCost))
			fmt.Fprintf(tw, "Años siguientes\t%s\n", core.FormatARSWhole(res.FollowingYears))
			fmt.Fprintf(tw, "Ahorro primer año\t%s\n", core.FormatARSWhole(res.FirstYearSavings))
			fmt.Fprintf(tw, "Ahorro anual luego\t%s\n", core.FormatARSWhole(res.YearlySavings))
			fmt.Fprintf(tw, "Recupero del kit (meses)\t%s\n", res.PaybackLabel())
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&bottle, "bottle-price", def.BottlePrice.InexactFloat64(), "price of one bottle")
	cmd.Flags().Float64Var(&bottles, "bottles", def.BottlesPerMonth.InexactFloat64(), "bottles per month")
	cmd.Flags().Float64Var(&kit, "kit", def.KitPrice.InexactFloat64(), "adaptation kit price")
	cmd.Flags().Float64Var(&maintenance, "maintenance", def.Maintenance.InexactFloat64(), "annual maintenance")
	return cmd
}
