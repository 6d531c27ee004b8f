// Package checkout turns a cart into navigations to the Gumroad checkout
// redirector.
package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

const (
	// DefaultBaseURL is the checkout redirector host.
	DefaultBaseURL = "https://gumroad.com"

	// MultipleItems is returned by BuildCheckoutURL when the cart cannot be
	// checked out through a single URL.
	MultipleItems = "MULTIPLE_ITEMS"
)

// Mode classifies a cart by how it can be checked out.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeSingle
	ModeMulti
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ModeOf returns the checkout mode of c, by number of distinct line items.
func ModeOf(c cart.Cart) Mode {
	switch len(c.Items) {
	case 0:
		return ModeEmpty
	case 1:
		return ModeSingle
	default:
		return ModeMulti
	}
}

// ItemURL returns the checkout URL of one line item.
func ItemURL(baseURL string, item cart.LineItem) string {
	return strings.TrimRight(baseURL, "/") +
		"/checkout?product=" + escapeComponent(item.ShortCode) +
		"&quantity=" + strconv.Itoa(item.Quantity)
}

// escapeComponent escapes s for a query value using %20 for spaces, which is
// what the storefront pages produce.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Prompt asks the shopper to confirm a multi-item checkout.
type Prompt struct {
	Titles []string
}

func (p Prompt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your cart contains %d items:\n\n", len(p.Titles))
	for i, title := range p.Titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, title)
	}
	b.WriteString("\nGumroad checks out one product at a time, so each item opens in a separate tab.\n\n")
	b.WriteString("TIP: After checkout, you can close all tabs except the last one.\n")
	return b.String()
}

// PromptFor builds the confirmation prompt of c.
func PromptFor(c cart.Cart) Prompt {
	titles := make([]string, len(c.Items))
	for i, item := range c.Items {
		titles[i] = item.Title
	}
	return Prompt{Titles: titles}
}
