package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/shopcart/catalog"
	"github.com/hupe1980/shopcart/core"
	"github.com/hupe1980/shopcart/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "shopcart",
		Short:        "Manage a persisted storefront shopping cart",
		SilenceUsage: true,
	}

	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			return run(cmd, a, args)
		}
	}

	addCmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), a.cart.Add(cmd.Context(), id))
		}),
	}

	removeCmd := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product line",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), a.cart.Remove(cmd.Context(), id))
		}),
	}

	setCmd := &cobra.Command{
		Use:   "set <product-id> <amount>",
		Short: "Set the amount of a product line (amounts below 1 are ignored)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}
			return report(cmd.OutOrStdout(), a.cart.SetQuantity(cmd.Context(), id, amount))
		}),
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current cart",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			printCart(cmd.OutOrStdout(), a.cart.Cart())
			return nil
		}),
	}

	root.AddCommand(addCmd, removeCmd, setCmd, listCmd, newServeCatalogCmd())
	return root
}

func newServeCatalogCmd() *cobra.Command {
	var (
		fixture string
		addr    string
	)
	cmd := &cobra.Command{
		Use:   "serve-catalog",
		Short: "Serve a fixture catalog on the storefront API routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.Logger().WithComponent("catalog-server")

			cat, err := catalog.LoadFixture(fixture)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           catalog.NewHandler(cat, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			logger.Info("serving catalog", "addr", addr, "fixture", fixture)
			fmt.Fprintf(cmd.OutOrStdout(), "serving catalog on %s\n", addr)

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "server.json", "json-server style catalog document")
	cmd.Flags().StringVar(&addr, "addr", ":3333", "listen address")
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("product id must be a positive integer, got %q", s)
	}
	return id, nil
}

// report prints the cart and turns a failed result into a command error.
func report(w io.Writer, res core.Result) error {
	printCart(w, res.Cart)
	if !res.OK() {
		return fmt.Errorf("%s %d: %s", res.Op, res.ProductID, res.Outcome)
	}
	return nil
}

func printCart(w io.Writer, c core.Cart) {
	if len(c) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tAMOUNT")
	for _, e := range c {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\n", e.ID, e.Title, e.Price, e.Amount)
	}
	_ = tw.Flush()
}
