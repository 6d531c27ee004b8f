package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one distinct product in the cart.
type LineItem struct {
	// ShortCode is the checkout identifier of the product and the unique
	// key of the line within a cart.
	ShortCode    string
	ProductID    string
	Title        string
	UnitPrice    int64 // cents
	ThumbnailURL string
	Quantity     int
	AddedAt      time.Time
}

// FormattedPrice renders the unit price for display.
func (i LineItem) FormattedPrice() string {
	return FormatCents(i.UnitPrice)
}

// Subtotal returns UnitPrice × Quantity in cents.
func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Candidate is a catalog product about to be added to the cart. Quantity and
// AddedAt are assigned by the cart.
type Candidate struct {
	ShortCode    string
	ProductID    string
	Title        string
	UnitPrice    int64 // cents
	ThumbnailURL string
}

// Cart is the session cart. TotalItems and TotalPrice are always the fold
// over Items.
type Cart struct {
	Items       []LineItem
	TotalItems  int
	TotalPrice  int64 // cents
	LastUpdated time.Time
}

// Empty returns a cart with no items stamped at now.
func Empty(now time.Time) Cart {
	return Cart{Items: []LineItem{}, LastUpdated: now}
}

// FormattedTotal renders the total price for display.
func (c Cart) FormattedTotal() string {
	return FormatCents(c.TotalPrice)
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Find returns the index of the line with the given short-code, or -1.
func (c Cart) Find(shortCode string) int {
	for i := range c.Items {
		if c.Items[i].ShortCode == shortCode {
			return i
		}
	}
	return -1
}

// Totals is the derived part of a Cart.
type Totals struct {
	Items int
	Price int64 // cents
}

// RecomputeTotals folds item quantities and prices. Prices stay in integer
// cents so repeated updates never drift.
func RecomputeTotals(items []LineItem) Totals {
	var t Totals
	for _, item := range items {
		t.Items += item.Quantity
		t.Price += item.Subtotal()
	}
	return t
}

// refold replaces the derived fields of c with the fold over its items.
func (c *Cart) refold() {
	t := RecomputeTotals(c.Items)
	c.TotalItems = t.Items
	c.TotalPrice = t.Price
}

// FormatCents renders an amount of cents as a dollar string, e.g. "$12.50".
// The result is for display only.
func FormatCents(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// Dollars converts cents to a decimal dollar amount for analytics payloads.
func Dollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
