package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/dispenser/internal/core"
	"github.com/spf13/cobra"
)

func newQuoteCmd() *cobra.Command {
	var (
		src      catalogFlags
		items    []string
		coupon   string
		customer string
		note     string
		phone    string
		linkOnly bool
	)
	cmd := &cobra.Command{
		Use:   "quote --item SKU[=QTY]...",
		Short: "Build the order message and chat link for a cart",
		Example: `  dispenserctl quote --item A1=3 --item B2 --coupon AMIGOS --customer Juan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(items) == 0 {
				return fmt.Errorf("at least one --item is required")
			}
			catalog, err := src.load(cmd.Context())
			if catalog == nil {
				return err
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s (%v)\n", core.SyncAdvisory, err)
			}

			cart, err := buildCart(catalog, items)
			if err != nil {
				return err
			}
			if err := cart.ApplyCoupon(coupon); err != nil {
				return fmt.Errorf("%s: %q", core.InvalidCouponMessage, coupon)
			}

			order := core.Order{Customer: customer, Note: note, Cart: cart, Date: time.Now()}
			link := core.NewLinks(phone).Order(order)
			if linkOnly {
				fmt.Fprintln(cmd.OutOrStdout(), link)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.BuildOrderText(order))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}
	src.register(cmd)
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "SKU or SKU=QTY, repeatable")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	cmd.Flags().StringVar(&customer, "customer", "", "customer name")
	cmd.Flags().StringVar(&note, "note", "", "order note")
	cmd.Flags().StringVar(&phone, "phone", core.DefaultWhatsAppPhone, "destination phone")
	cmd.Flags().BoolVar(&linkOnly, "link-only", false, "print only the chat link")
	return cmd
}

// buildCart adds each SKU[=QTY] item in order, with the same clamping the
// storefront applies.
func buildCart(finder core.ProductFinder, items []string) (core.Cart, error) {
	var cart core.Cart
	for _, item := range items {
		sku, qtyStr, hasQty := strings.Cut(item, "=")
		qty := 1
		if hasQty {
			n, err := strconv.Atoi(strings.TrimSpace(qtyStr))
			if err != nil {
				return cart, fmt.Errorf("item %q: quantity must be an integer", item)
			}
			qty = n
		}

		p, err := finder.Find(strings.TrimSpace(sku))
		if err != nil {
			return cart, err
		}
		if err := cart.Add(p, qty); err != nil {
			return cart, fmt.Errorf("%s: %w", p.ID, err)
		}
	}
	return cart, nil
}
