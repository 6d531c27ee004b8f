package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

func rightAligned(columns ...int) []table.ColumnConfig {
	out := make([]table.ColumnConfig, len(columns))
	for i, n := range columns {
		out[i] = table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight}
	}
	return out
}

// renderCart renders the cart as a table with a totals footer.
func renderCart(c cart.Cart) string {
	if len(c.Items) == 0 {
		return "Your cart is empty."
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"#", "Code", "Product", "Qty", "Price", "Subtotal"})
	for i, item := range c.Items {
		tw.AppendRow(table.Row{
			i + 1,
			item.ShortCode,
			item.Title,
			item.Quantity,
			item.FormattedPrice(),
			cart.FormatCents(item.UnitPrice * int64(item.Quantity)),
		})
	}
	tw.AppendFooter(table.Row{"", "", "Total", c.TotalItems, "", c.FormattedTotal()})
	tw.SetColumnConfigs(rightAligned(1, 4, 5, 6))
	return tw.Render()
}

// renderProducts renders catalog products with the code used by the cart.
func renderProducts(products []catalog.Product) string {
	if len(products) == 0 {
		return "No products available."
	}

	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "Code", "Product", "Price", "Sales"})
	for _, p := range products {
		tw.AppendRow(table.Row{
			p.ID,
			p.CartCandidate().ShortCode,
			p.Title,
			p.FormattedPrice(),
			strconv.Itoa(p.SalesCount),
		})
	}
	tw.SetColumnConfigs(rightAligned(4, 5))
	return tw.Render()
}

func summary(c cart.Cart) string {
	noun := "items"
	if c.TotalItems == 1 {
		noun = "item"
	}
	return "Cart: " + strconv.Itoa(c.TotalItems) + " " + noun + ", " + c.FormattedTotal()
}
