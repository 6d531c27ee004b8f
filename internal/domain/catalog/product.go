// Package catalog describes the read-only product catalog the cart is fed
// from.
package catalog

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/go-faster/errors"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

// DefaultListLimit is the number of products listed when no limit is given.
const DefaultListLimit = 10

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item.
type Product struct {
	ID           string
	Title        string
	Slug         string
	Description  string
	Price        int64 // cents, best price over variants
	Currency     string
	ShortCode    string
	URL          string
	PreviewURL   string
	ThumbnailURL string
	Tags         []string
	Published    bool
	SalesCount   int
	Variants     []Variant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Variant is a group of purchase options.
type Variant struct {
	Title   string
	Options []VariantOption
}

// VariantOption is one purchasable option of a variant.
type VariantOption struct {
	Name            string
	PriceDifference int64 // cents
	PayWhatYouWant  bool
}

// FormattedPrice renders the price for display.
func (p Product) FormattedPrice() string {
	return cart.FormatCents(p.Price)
}

// CartCandidate returns what the cart stores when p is added. Products
// without a short URL are checked out by id.
func (p Product) CartCandidate() cart.Candidate {
	code := p.ShortCode
	if code == "" {
		code = p.ID
	}
	return cart.Candidate{
		ShortCode:    code,
		ProductID:    p.ID,
		Title:        p.Title,
		UnitPrice:    p.Price,
		ThumbnailURL: p.ThumbnailURL,
	}
}

// BestPrice returns base plus the first positive option price difference
// found across variants, or base when there is none.
func BestPrice(base int64, variants []Variant) int64 {
	for _, v := range variants {
		for _, o := range v.Options {
			if o.PriceDifference > 0 {
				return base + o.PriceDifference
			}
		}
	}
	return base
}

// Slug turns a product title into a URL path segment: lowercase ASCII
// letters and digits separated by single hyphens.
func Slug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// ShortCodeFromURL extracts the checkout short-code from a product short
// URL such as https://tsk.gumroad.com/l/hvhjo.
func ShortCodeFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Source is a catalog backend. Errors are returned to the caller.
type Source interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
}

// Provider is the catalog as the storefront consumes it: failures surface
// as empty results.
type Provider interface {
	Products(ctx context.Context, limit int) []Product
	Product(ctx context.Context, id string) (Product, bool)
}
