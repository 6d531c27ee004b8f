package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var manual struct {
		code  string
		title string
		price string
	}

	cmd := &cobra.Command{
		Use:   "add [product-id]",
		Short: "Add a product to the cart",
		Long: "Add a product to the cart. The product is looked up in the Gumroad catalog;\n" +
			"with --code, --title and --price it is added without a catalog lookup.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				candidate cart.Candidate
				err       error
			)
			if manual.code != "" {
				candidate, err = manualCandidate(manual.code, manual.title, manual.price)
			} else {
				if len(args) != 1 {
					return errors.New("product id is required (or use --code)")
				}
				lc, lerr := ctx.withLogger(cmd)
				if lerr != nil {
					return lerr
				}
				candidate, err = ctx.lookup(lc, args[0])
			}
			if err != nil {
				return err
			}

			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				after := s.service.AddItem(c, candidate)
				item, _ := s.service.Item(c, candidate.ShortCode)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (quantity %d). %s\n", item.Title, item.Quantity, summary(after))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&manual.code, "code", "", "Checkout short-code of a product not looked up in the catalog")
	cmd.Flags().StringVar(&manual.title, "title", "", "Product title for --code")
	cmd.Flags().StringVar(&manual.price, "price", "0", "Unit price in dollars for --code, e.g. 19.99")
	return cmd
}

func (c *commandContext) lookup(ctx context.Context, id string) (cart.Candidate, error) {
	products, err := c.catalog()
	if err != nil {
		return cart.Candidate{}, err
	}
	p, ok := products.Product(ctx, id)
	if !ok {
		return cart.Candidate{}, errors.Errorf("product %q not found", id)
	}
	return p.CartCandidate(), nil
}

// manualCandidate builds a candidate from flags. Prices are dollars with at
// most two decimals.
func manualCandidate(code, title, price string) (cart.Candidate, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(price), "$"))
	if err != nil {
		return cart.Candidate{}, errors.Wrapf(err, "parse price %q", price)
	}
	if d.IsNegative() {
		return cart.Candidate{}, errors.Errorf("price %s is negative", d)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return cart.Candidate{}, errors.Errorf("price %s has fractional cents", d)
	}
	if title == "" {
		title = code
	}
	return cart.Candidate{
		ShortCode: code,
		ProductID: code,
		Title:     title,
		UnitPrice: cents.IntPart(),
	}, nil
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <short-code>",
		Aliases: []string{"rm"},
		Short:   "Remove a product from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				item, ok := s.service.Item(c, code)
				after := s.service.RemoveItem(c, code)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not in the cart. %s\n", code, summary(after))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s. %s\n", item.Title, summary(after))
				return nil
			})
		},
	}
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <short-code> <quantity>",
		Short: "Set the quantity of a product in the cart; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Wrapf(err, "parse quantity %q", args[1])
			}
			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				if !s.service.Contains(c, code) {
					return errors.Errorf("%s is not in the cart", code)
				}
				after := s.service.SetQuantity(c, code, qty)
				fmt.Fprintln(cmd.OutOrStdout(), summary(after))
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Aliases: []string{"ls"},
		Short:   "Show the cart",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				fmt.Fprintln(cmd.OutOrStdout(), renderCart(s.service.Cart(c)))
				return nil
			})
		},
	}
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd.Context(), cmd.ErrOrStderr(), func(c context.Context, s *cartSession) error {
				n := s.service.Count(c)
				s.service.Clear(c)
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d items.\n", n)
				return nil
			})
		},
	}
}
