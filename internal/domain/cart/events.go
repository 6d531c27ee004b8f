package cart

import (
	"sync"
	"time"
)

// ChannelCartChanged is the channel carrying the full cart after every
// successful write.
const ChannelCartChanged = "cart-changed"

// EventName identifies an analytics event.
type EventName string

const (
	EventCartModified       EventName = "cart-modified"
	EventAddToCart          EventName = "add-to-cart"
	EventRemoveFromCart     EventName = "remove-from-cart"
	EventUpdateCartQuantity EventName = "update-cart-quantity"
	EventCartCleared        EventName = "cart-cleared"
	EventBeginCheckout      EventName = "begin-checkout"
)

// Channel returns the analytics channel name of the event.
func (n EventName) Channel() string {
	return "analytics-" + string(n)
}

// CheckoutMethod tags a begin-checkout event.
type CheckoutMethod string

const (
	CheckoutSingleItem CheckoutMethod = "single_item"
	CheckoutMultiItem  CheckoutMethod = "multi_item"
)

// ProductSnapshot describes one line in a begin-checkout event.
type ProductSnapshot struct {
	ProductID string
	Title     string
	UnitPrice int64 // cents
	Quantity  int
}

// AnalyticsEvent is the payload of an analytics-* notification. Which fields
// are set depends on Name.
type AnalyticsEvent struct {
	Name EventName

	// Line-level fields: add, remove and quantity updates.
	ProductID   string
	ProductName string
	UnitPrice   int64 // cents
	Quantity    int
	OldQuantity int
	NewQuantity int

	// Aggregate fields: cart-modified, cart-cleared and begin-checkout.
	ItemCount  int
	TotalValue int64 // cents
	Products   []ProductSnapshot
	Method     CheckoutMethod

	Timestamp time.Time
}

// Notifier receives cart notifications. Implementations must not call back
// into the cart service.
type Notifier interface {
	CartChanged(c Cart)
	Track(e AnalyticsEvent)
}

// Nop is a Notifier that drops everything.
type Nop struct{}

// CartChanged discards c.
func (Nop) CartChanged(Cart) {}

// Track discards e.
func (Nop) Track(AnalyticsEvent) {}

// Bus fans notifications out to subscribers synchronously, in subscription
// order. The zero value is ready to use.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	changed   map[int]func(Cart)
	analytics map[int]func(AnalyticsEvent)
	order     []int
}

var _ Notifier = (*Bus)(nil)

// OnCartChanged subscribes fn to the cart-changed channel. The returned
// function removes the subscription.
func (b *Bus) OnCartChanged(fn func(Cart)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.changed == nil {
		b.changed = make(map[int]func(Cart))
	}
	id := b.add()
	b.changed[id] = fn
	return func() { b.remove(id) }
}

// OnAnalytics subscribes fn to every analytics-* channel.
func (b *Bus) OnAnalytics(fn func(AnalyticsEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.analytics == nil {
		b.analytics = make(map[int]func(AnalyticsEvent))
	}
	id := b.add()
	b.analytics[id] = fn
	return func() { b.remove(id) }
}

// CartChanged delivers c to every cart-changed subscriber.
func (b *Bus) CartChanged(c Cart) {
	b.mu.RLock()
	subs := make([]func(Cart), 0, len(b.changed))
	for _, id := range b.order {
		if fn, ok := b.changed[id]; ok {
			subs = append(subs, fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}

// Track delivers e to every analytics subscriber.
func (b *Bus) Track(e AnalyticsEvent) {
	b.mu.RLock()
	subs := make([]func(AnalyticsEvent), 0, len(b.analytics))
	for _, id := range b.order {
		if fn, ok := b.analytics[id]; ok {
			subs = append(subs, fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(e)
	}
}

// add allocates a subscription id. Caller holds b.mu.
func (b *Bus) add() int {
	b.nextID++
	b.order = append(b.order, b.nextID)
	return b.nextID
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.changed, id)
	delete(b.analytics, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
