package cli

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/dispenser/internal/config"
	"github.com/JonMunkholm/dispenser/internal/storage"
	"github.com/spf13/cobra"
)

func newCartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carts",
		Short: "Maintain the cart store",
	}
	cmd.AddCommand(newCartsSweepCmd(), newCartsPingCmd())
	return cmd
}

// openStore opens the store configured in the environment.
func openStore(cmd *cobra.Command) (storage.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func newCartsSweepCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete carts untouched for longer than the TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			sw, ok := store.(storage.Sweeper)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s store expires carts on its own\n", cfg.Cart.Store)
				return nil
			}
			if ttl <= 0 {
				ttl = cfg.Cart.TTL
			}
			n, err := sw.Sweep(cmd.Context(), time.Now().Add(-ttl))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d carritos eliminados\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "age limit (default: $CART_TTL)")
	return cmd
}

func newCartsPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the cart store is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s store ok\n", cfg.Cart.Store)
			return nil
		},
	}
}
