package cart

import (
	"context"
	"time"
)

// Service holds the cart mutators and queries. Every mutator loads the
// cart, changes it, re-derives the totals, stamps LastUpdated and persists
// it before returning the new cart.
type Service struct {
	store  *Store
	notify Notifier
}

// NewService creates a Service over store. Mutation events go to the same
// Notifier as the store's broadcasts.
func NewService(store *Store) *Service {
	return &Service{store: store, notify: store.notify}
}

// AddItem adds one unit of the candidate. A candidate already in the cart
// only has its quantity incremented; its stored title and price are kept.
func (s *Service) AddItem(ctx context.Context, candidate Candidate) Cart {
	c := s.store.Load(ctx)
	now := s.store.now()

	oldQty := 0
	if i := c.Find(candidate.ShortCode); i >= 0 {
		oldQty = c.Items[i].Quantity
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, LineItem{
			ShortCode:    candidate.ShortCode,
			ProductID:    candidate.ProductID,
			Title:        candidate.Title,
			UnitPrice:    candidate.UnitPrice,
			ThumbnailURL: candidate.ThumbnailURL,
			Quantity:     1,
			AddedAt:      now,
		})
	}

	if err := s.commit(ctx, &c, now); err != nil {
		return c
	}
	s.notify.Track(AnalyticsEvent{
		Name:        EventAddToCart,
		ProductID:   candidate.ProductID,
		ProductName: candidate.Title,
		UnitPrice:   candidate.UnitPrice,
		Quantity:    1,
		OldQuantity: oldQty,
		NewQuantity: oldQty + 1,
		Timestamp:   s.store.now(),
	})
	return c
}

// RemoveItem drops the line with the given short-code. The cart is
// persisted even when no such line exists.
func (s *Service) RemoveItem(ctx context.Context, shortCode string) Cart {
	c := s.store.Load(ctx)
	now := s.store.now()

	var (
		removed LineItem
		found   bool
	)
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ShortCode == shortCode {
			removed, found = item, true
			continue
		}
		kept = append(kept, item)
	}
	c.Items = kept

	if err := s.commit(ctx, &c, now); err != nil || !found {
		return c
	}
	s.notify.Track(AnalyticsEvent{
		Name:        EventRemoveFromCart,
		ProductID:   removed.ProductID,
		ProductName: removed.Title,
		UnitPrice:   removed.UnitPrice,
		Quantity:    removed.Quantity,
		OldQuantity: removed.Quantity,
		Timestamp:   s.store.now(),
	})
	return c
}

// SetQuantity overwrites the quantity of a line in place. A quantity of
// zero or less removes the line; an unknown short-code leaves the cart
// untouched.
func (s *Service) SetQuantity(ctx context.Context, shortCode string, quantity int) Cart {
	if quantity <= 0 {
		return s.RemoveItem(ctx, shortCode)
	}

	c := s.store.Load(ctx)
	i := c.Find(shortCode)
	if i < 0 {
		return c
	}

	now := s.store.now()
	oldQty := c.Items[i].Quantity
	c.Items[i].Quantity = quantity

	if err := s.commit(ctx, &c, now); err != nil {
		return c
	}
	s.notify.Track(AnalyticsEvent{
		Name:        EventUpdateCartQuantity,
		ProductID:   c.Items[i].ProductID,
		ProductName: c.Items[i].Title,
		UnitPrice:   c.Items[i].UnitPrice,
		Quantity:    quantity,
		OldQuantity: oldQty,
		NewQuantity: quantity,
		Timestamp:   s.store.now(),
	})
	return c
}

// Clear empties the cart and erases the persisted record. When the erase
// fails nothing is broadcast, but the empty cart is still returned.
func (s *Service) Clear(ctx context.Context) Cart {
	before := s.store.Load(ctx)
	empty := Empty(s.store.now())

	if err := s.store.erase(ctx); err != nil {
		return empty
	}
	s.notify.CartChanged(empty)
	s.notify.Track(AnalyticsEvent{
		Name:      EventCartCleared,
		ItemCount: before.TotalItems,
		Timestamp: s.store.now(),
	})
	return empty
}

// Cart returns the current cart.
func (s *Service) Cart(ctx context.Context) Cart {
	return s.store.Load(ctx)
}

// Count returns the total number of units in the cart.
func (s *Service) Count(ctx context.Context) int {
	return s.store.Load(ctx).TotalItems
}

// Total returns the cart total in cents and formatted for display.
func (s *Service) Total(ctx context.Context) (cents int64, formatted string) {
	c := s.store.Load(ctx)
	return c.TotalPrice, c.FormattedTotal()
}

// Contains reports whether a line with the short-code is in the cart.
func (s *Service) Contains(ctx context.Context, shortCode string) bool {
	return s.store.Load(ctx).Find(shortCode) >= 0
}

// Item returns the line with the short-code.
func (s *Service) Item(ctx context.Context, shortCode string) (LineItem, bool) {
	c := s.store.Load(ctx)
	if i := c.Find(shortCode); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// commit refolds, stamps and persists c.
func (s *Service) commit(ctx context.Context, c *Cart, now time.Time) error {
	c.refold()
	c.LastUpdated = now
	return s.store.persist(ctx, *c)
}
