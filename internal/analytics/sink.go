// Package analytics consumes cart analytics events.
package analytics

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

const meterName = "github.com/tsksoundkits/storefront/internal/analytics"

// Sink logs analytics events and records them as metrics.
type Sink struct {
	lg *zap.Logger

	events        metric.Int64Counter
	units         metric.Int64Counter
	checkoutValue metric.Int64Histogram
}

// New creates a Sink reporting to mp.
func New(lg *zap.Logger, mp metric.MeterProvider) (*Sink, error) {
	meter := mp.Meter(meterName)

	events, err := meter.Int64Counter("storefront.cart.events",
		metric.WithDescription("Cart analytics events by name"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "events counter")
	}
	units, err := meter.Int64Counter("storefront.cart.units_added",
		metric.WithDescription("Units added to carts"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "units counter")
	}
	checkoutValue, err := meter.Int64Histogram("storefront.checkout.value",
		metric.WithDescription("Cart value at checkout start"),
		metric.WithUnit("{cent}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "checkout value histogram")
	}

	return &Sink{
		lg:            lg,
		events:        events,
		units:         units,
		checkoutValue: checkoutValue,
	}, nil
}

// Attach subscribes the sink to b. The returned function detaches it.
func (s *Sink) Attach(b *cart.Bus) (detach func()) {
	return b.OnAnalytics(s.Track)
}

// Track handles one event.
func (s *Sink) Track(e cart.AnalyticsEvent) {
	ctx := context.Background()
	name := attribute.String("event", string(e.Name))
	s.events.Add(ctx, 1, metric.WithAttributes(name))

	switch e.Name {
	case cart.EventAddToCart:
		s.units.Add(ctx, int64(e.Quantity))
	case cart.EventBeginCheckout:
		s.checkoutValue.Record(ctx, e.TotalValue,
			metric.WithAttributes(attribute.String("method", string(e.Method))),
		)
	}

	s.lg.Info("Cart event", fields(e)...)
}

func fields(e cart.AnalyticsEvent) []zap.Field {
	out := []zap.Field{
		zap.String("channel", e.Name.Channel()),
		zap.Time("ts", e.Timestamp),
	}
	switch e.Name {
	case cart.EventAddToCart, cart.EventRemoveFromCart, cart.EventUpdateCartQuantity:
		out = append(out,
			zap.String("product_id", e.ProductID),
			zap.String("product_name", e.ProductName),
			zap.String("price", cart.FormatCents(e.UnitPrice)),
			zap.Int("quantity", e.Quantity),
		)
		if e.Name != cart.EventRemoveFromCart {
			out = append(out,
				zap.Int("old_quantity", e.OldQuantity),
				zap.Int("new_quantity", e.NewQuantity),
			)
		}
	case cart.EventBeginCheckout:
		ids := make([]string, len(e.Products))
		for i, p := range e.Products {
			ids[i] = p.ProductID
		}
		out = append(out,
			zap.String("method", string(e.Method)),
			zap.Int("item_count", e.ItemCount),
			zap.String("total", cart.FormatCents(e.TotalValue)),
			zap.Strings("products", ids),
		)
	case cart.EventCartCleared:
		out = append(out, zap.Int("item_count", e.ItemCount))
	default:
		out = append(out,
			zap.Int("item_count", e.ItemCount),
			zap.String("total", cart.FormatCents(e.TotalValue)),
		)
	}
	return out
}
