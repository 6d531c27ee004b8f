package main

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/tsksoundkits/storefront/internal/domain/checkout"
)

func (c *commandContext) coordinator(s *cartSession, nav checkout.Navigator, confirm checkout.Confirmer) *checkout.Coordinator {
	cfg := c.config
	return checkout.NewCoordinator(s.service, nav, confirm,
		checkout.WithBaseURL(cfg.Checkout.BaseURL),
		checkout.WithStagger(cfg.Checkout.Stagger),
		checkout.WithNotifier(s.bus),
	)
}

func newURLCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the checkout URLs of the cart, one per product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				co := ctx.coordinator(s, nil, nil)
				urls := co.AllCheckoutURLs(c)
				if len(urls) == 0 {
					return errors.New("cart is empty")
				}
				for _, u := range urls {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			})
		},
	}
}

func newCheckoutCommand(ctx *commandContext) *cobra.Command {
	var (
		yes       bool
		printOnly bool
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Open Gumroad checkout for the cart",
		Long: "Open Gumroad checkout for the cart. Gumroad checks out one product per page,\n" +
			"so a cart with several products opens one browser tab per product after confirmation.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var nav checkout.Navigator = browserNavigator{open: ctx.openURL}
			if printOnly {
				nav = printNavigator{w: out}
			}
			confirm := terminalConfirmer{
				in:        cmd.InOrStdin(),
				out:       out,
				isTTY:     ctx.isTTY,
				assumeYes: yes,
			}

			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				outcome, err := ctx.coordinator(s, nav, confirm).Run(c)
				switch {
				case outcome.Mode == checkout.ModeEmpty:
					return errors.New("cart is empty")
				case !outcome.Confirmed:
					fmt.Fprintln(out, "Checkout cancelled.")
					return nil
				}
				if !printOnly {
					fmt.Fprintf(out, "Opened %d of %d checkout pages.\n", outcome.Opened, len(outcome.URLs))
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Open every checkout page without asking")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print checkout URLs instead of opening a browser")
	return cmd
}
