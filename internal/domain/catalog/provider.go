package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

var _ Provider = (*Fallback)(nil)

// Fallback adapts a Source into a Provider. Source errors are logged and
// turned into empty results; only published products are exposed.
type Fallback struct {
	src Source
}

// NewFallback creates a Fallback over src.
func NewFallback(src Source) *Fallback {
	return &Fallback{src: src}
}

// Products returns up to limit published products in source order. A
// non-positive limit means DefaultListLimit.
func (f *Fallback) Products(ctx context.Context, limit int) []Product {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	all, err := f.src.List(ctx)
	if err != nil {
		zctx.From(ctx).Error("List products", zap.Error(err))
		return []Product{}
	}

	out := make([]Product, 0, min(limit, len(all)))
	for _, p := range all {
		if len(out) == limit {
			break
		}
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

// Product returns the product with the given id.
func (f *Fallback) Product(ctx context.Context, id string) (Product, bool) {
	p, err := f.src.Get(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return Product{}, false
	case err != nil:
		zctx.From(ctx).Error("Get product", zap.String("product_id", id), zap.Error(err))
		return Product{}, false
	case p == nil:
		return Product{}, false
	}
	return *p, true
}
