package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// Store loads and persists the cart record and broadcasts every successful
// write. It holds no cart between calls: each caller gets the cart decoded
// from storage at that moment.
//
// Two processes sharing one Storage are last-writer-wins; the store does
// not lock or version the record.
type Store struct {
	storage Storage
	notify  Notifier
	key     string
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the record key.
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store persisting into storage and broadcasting to
// notify. A nil notify drops notifications.
func NewStore(storage Storage, notify Notifier, opts ...StoreOption) *Store {
	if notify == nil {
		notify = Nop{}
	}
	s := &Store{
		storage: storage,
		notify:  notify,
		key:     RecordKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted cart, or a fresh empty cart when nothing is
// stored or the stored bytes cannot be decoded.
func (s *Store) Load(ctx context.Context) Cart {
	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			zctx.From(ctx).Warn("Read cart record", zap.String("key", s.key), zap.Error(err))
		}
		return Empty(s.now())
	}

	c, err := DecodeRecord(data)
	if err != nil {
		zctx.From(ctx).Warn("Discard malformed cart record",
			zap.String("key", s.key),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return Empty(s.now())
	}
	return c
}

// Persist writes c and broadcasts it. Write failures are logged and
// swallowed.
func (s *Store) Persist(ctx context.Context, c Cart) {
	_ = s.persist(ctx, c)
}

// persist is Persist reporting whether the write happened, so mutators can
// hold back their own events on failure.
func (s *Store) persist(ctx context.Context, c Cart) error {
	if err := s.storage.Set(ctx, s.key, EncodeRecord(c)); err != nil {
		zctx.From(ctx).Error("Save cart record", zap.String("key", s.key), zap.Error(err))
		return err
	}

	s.notify.CartChanged(c)
	s.notify.Track(AnalyticsEvent{
		Name:       EventCartModified,
		ItemCount:  c.TotalItems,
		TotalValue: c.TotalPrice,
		Timestamp:  s.now(),
	})
	return nil
}

// erase deletes the record. The caller decides what to broadcast.
func (s *Store) erase(ctx context.Context) error {
	if err := s.storage.Delete(ctx, s.key); err != nil {
		zctx.From(ctx).Error("Delete cart record", zap.String("key", s.key), zap.Error(err))
		return err
	}
	return nil
}
