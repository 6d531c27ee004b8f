package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tsksoundkits/storefront/internal/domain/cart"
)

// DefaultStagger is the delay between consecutive checkout pages of a
// multi-item checkout.
const DefaultStagger = 500 * time.Millisecond

// CartSource reads the current cart. *cart.Service implements it.
type CartSource interface {
	Cart(ctx context.Context) cart.Cart
}

// Navigator opens a checkout page.
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// Confirmer asks the shopper to accept a multi-item checkout.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// Outcome reports what Run did.
type Outcome struct {
	Mode      Mode
	Confirmed bool
	URLs      []string
	Opened    int
	Failed    int
}

var _ CartSource = (*cart.Service)(nil)

// Coordinator drives checkout of the cart.
type Coordinator struct {
	carts   CartSource
	nav     Navigator
	confirm Confirmer
	notify  cart.Notifier

	baseURL string
	stagger time.Duration
	sleep   func(time.Duration)
	now     func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithBaseURL overrides the checkout host.
func WithBaseURL(u string) Option {
	return func(c *Coordinator) { c.baseURL = u }
}

// WithStagger overrides the delay between multi-item navigations.
func WithStagger(d time.Duration) Option {
	return func(c *Coordinator) { c.stagger = d }
}

// WithSleep overrides how the coordinator waits between navigations.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Coordinator) { c.sleep = sleep }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithNotifier sets where begin-checkout events go.
func WithNotifier(n cart.Notifier) Option {
	return func(c *Coordinator) { c.notify = n }
}

// NewCoordinator creates a Coordinator. A nil confirm declines every
// multi-item checkout.
func NewCoordinator(carts CartSource, nav Navigator, confirm Confirmer, opts ...Option) *Coordinator {
	c := &Coordinator{
		carts:   carts,
		nav:     nav,
		confirm: confirm,
		notify:  cart.Nop{},
		baseURL: DefaultBaseURL,
		stagger: DefaultStagger,
		sleep:   time.Sleep,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the checkout mode of the current cart.
func (c *Coordinator) Mode(ctx context.Context) Mode {
	return ModeOf(c.carts.Cart(ctx))
}

// BuildCheckoutURL returns the single checkout URL of the cart: empty for an
// empty cart and MultipleItems when the cart holds more than one line.
func (c *Coordinator) BuildCheckoutURL(ctx context.Context) string {
	ct := c.carts.Cart(ctx)
	switch ModeOf(ct) {
	case ModeEmpty:
		return ""
	case ModeSingle:
		return ItemURL(c.baseURL, ct.Items[0])
	default:
		return MultipleItems
	}
}

// AllCheckoutURLs returns one checkout URL per line item, in cart order.
func (c *Coordinator) AllCheckoutURLs(ctx context.Context) []string {
	return c.urls(c.carts.Cart(ctx))
}

func (c *Coordinator) urls(ct cart.Cart) []string {
	out := make([]string, len(ct.Items))
	for i, item := range ct.Items {
		out[i] = ItemURL(c.baseURL, item)
	}
	return out
}

// Run checks out the cart. A single line opens immediately. Several lines
// need confirmation first; once confirmed every page is opened with the
// stagger delay between them and the sequence is not cancelled by ctx.
//
// Failed navigations do not stop the sequence. The returned error wraps the
// first failure.
func (c *Coordinator) Run(ctx context.Context) (Outcome, error) {
	ct := c.carts.Cart(ctx)
	out := Outcome{Mode: ModeOf(ct)}
	lg := zctx.From(ctx)

	switch out.Mode {
	case ModeEmpty:
		return out, nil
	case ModeSingle:
		out.Confirmed = true
		out.URLs = c.urls(ct)
		err := c.open(ctx, &out)
		c.track(ct, cart.CheckoutSingleItem)
		return out, err
	}

	if c.confirm == nil || !c.confirm.Confirm(ctx, PromptFor(ct)) {
		lg.Info("Multi-item checkout declined", zap.Int("items", len(ct.Items)))
		return out, nil
	}
	out.Confirmed = true
	out.URLs = c.urls(ct)
	c.track(ct, cart.CheckoutMultiItem)

	err := c.open(context.WithoutCancel(ctx), &out)
	return out, err
}

func (c *Coordinator) open(ctx context.Context, out *Outcome) error {
	var first error
	for i, u := range out.URLs {
		if i > 0 && c.stagger > 0 {
			c.sleep(c.stagger)
		}
		if err := c.nav.Open(ctx, u); err != nil {
			zctx.From(ctx).Warn("Open checkout page", zap.String("url", u), zap.Error(err))
			out.Failed++
			if first == nil {
				first = err
			}
			continue
		}
		out.Opened++
	}
	if first != nil {
		return errors.Wrapf(first, "open %d of %d checkout pages", out.Failed, len(out.URLs))
	}
	return nil
}

func (c *Coordinator) track(ct cart.Cart, method cart.CheckoutMethod) {
	products := make([]cart.ProductSnapshot, len(ct.Items))
	for i, item := range ct.Items {
		products[i] = cart.ProductSnapshot{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	c.notify.Track(cart.AnalyticsEvent{
		Name:       cart.EventBeginCheckout,
		ItemCount:  ct.TotalItems,
		TotalValue: ct.TotalPrice,
		Products:   products,
		Method:     method,
		Timestamp:  c.now(),
	})
}
