package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

func newProductsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List published products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := ctx.catalog()
			if err != nil {
				return err
			}
			c, err := ctx.withLogger(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProducts(products.Products(c, limit)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", catalog.DefaultListLimit, "Maximum number of products")
	return cmd
}
