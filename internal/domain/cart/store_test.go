package cart

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockStorage struct {
	data      map[string][]byte
	getErr    error
	setErr    error
	deleteErr error
	sets      int
}

func newMockStorage() *mockStorage {
	return &mockStorage{data: make(map[string][]byte)}
}

func (m *mockStorage) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNoRecord
	}
	return v, nil
}

func (m *mockStorage) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.data, key)
	return nil
}

type recordingNotifier struct {
	carts  []Cart
	events []AnalyticsEvent
}

func (r *recordingNotifier) CartChanged(c Cart)      { r.carts = append(r.carts, c) }
func (r *recordingNotifier) Track(e AnalyticsEvent) { r.events = append(r.events, e) }

func (r *recordingNotifier) names() []EventName {
	out := make([]EventName, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

// --- Helpers ---

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(storage Storage, n Notifier) *Store {
	return NewStore(storage, n, WithClock(func() time.Time { return fixedNow }))
}

// --- Tests ---

func TestStore_LoadAbsentReturnsEmpty(t *testing.T) {
	s := newTestStore(newMockStorage(), nil)

	c := s.Load(context.Background())

	assert.Empty(t, c.Items)
	assert.NotNil(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPrice)
	assert.Equal(t, fixedNow, c.LastUpdated)
}

func TestStore_LoadMalformedReturnsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "truncated json", data: `{"items":[{"shortCode":"k1","quantity":1`},
		{name: "not an object", data: `[1,2,3]`},
		{name: "null", data: `null`},
		{name: "garbage", data: `not json at all`},
		{name: "trailing data", data: `{"items":[]} {}`},
		{name: "zero quantity", data: `{"items":[{"shortCode":"k1","price":500,"quantity":0}]}`},
		{name: "duplicate short code", data: `{"items":[{"shortCode":"k1","price":1,"quantity":1},{"shortCode":"k1","price":1,"quantity":1}]}`},
		{name: "missing short code", data: `{"items":[{"price":500,"quantity":1}]}`},
		{name: "bad timestamp", data: `{"items":[],"lastUpdated":"yesterday"}`},
		{name: "string quantity", data: `{"items":[{"shortCode":"k1","price":500,"quantity":"1"}]}`},
		{name: "negative price", data: `{"items":[{"shortCode":"k1","price":-500,"quantity":1}]}`},
		{name: "subtotal overflow", data: `{"items":[{"shortCode":"k1","price":9223372036854775807,"quantity":2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMockStorage()
			storage.data[RecordKey] = []byte(tt.data)
			s := newTestStore(storage, nil)

			var c Cart
			require.NotPanics(t, func() { c = s.Load(context.Background()) })
			assert.Empty(t, c.Items)
			assert.Zero(t, c.TotalPrice)
		})
	}
}

func TestStore_PersistLoadRoundTrip(t *testing.T) {
	storage := newMockStorage()
	s := newTestStore(storage, nil)
	added := time.Date(2025, 6, 1, 10, 0, 0, 123000000, time.UTC)

	want := Cart{
		Items: []LineItem{
			{ShortCode: "hvhjo", ProductID: "p1", Title: "Kit A", UnitPrice: 1999, Quantity: 2, AddedAt: added},
			{ShortCode: "entropy", ProductID: "p2", Title: "Kit B", UnitPrice: 0, ThumbnailURL: "https://cdn/b.png", Quantity: 1, AddedAt: added},
			{ShortCode: "a b+c", ProductID: "p3", Title: `Kit "C"`, UnitPrice: 500, Quantity: 5, AddedAt: fixedNow},
		},
		LastUpdated: fixedNow,
	}
	want.refold()

	s.Persist(context.Background(), want)
	require.Equal(t, 1, storage.sets)

	got := s.Load(context.Background())
	assert.Equal(t, want, got)
	assert.Equal(t, 8, got.TotalItems)
	assert.Equal(t, int64(6498), got.TotalPrice)
}

func TestStore_LoadReadErrorReturnsEmpty(t *testing.T) {
	storage := newMockStorage()
	storage.getErr = errors.New("storage unavailable")
	s := newTestStore(storage, nil)

	c := s.Load(context.Background())
	assert.True(t, c.IsEmpty())
}

func TestStore_LoadRefoldsStoredTotals(t *testing.T) {
	storage := newMockStorage()
	storage.data[RecordKey] = []byte(`{"items":[
		{"shortCode":"k1","productId":"p1","title":"Kit A","price":500,"quantity":2,"addedAt":"2025-06-01T10:00:00.000Z"}
	],"totalItems":99,"totalPrice":1,"formattedTotal":"$0.01","lastUpdated":"2025-06-01T10:00:00.000Z"}`)
	s := newTestStore(storage, nil)

	c := s.Load(context.Background())

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, int64(1000), c.TotalPrice)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), c.LastUpdated)
}

func TestStore_PersistBroadcasts(t *testing.T) {
	storage := newMockStorage()
	n := &recordingNotifier{}
	s := newTestStore(storage, n)

	c := Cart{Items: []LineItem{{ShortCode: "k1", UnitPrice: 250, Quantity: 2}}, LastUpdated: fixedNow}
	c.refold()
	s.Persist(context.Background(), c)

	require.Len(t, n.carts, 1)
	assert.Equal(t, c, n.carts[0])
	require.Len(t, n.events, 1)
	assert.Equal(t, EventCartModified, n.events[0].Name)
	assert.Equal(t, 2, n.events[0].ItemCount)
	assert.Equal(t, int64(500), n.events[0].TotalValue)
	assert.Equal(t, fixedNow, n.events[0].Timestamp)
	assert.Contains(t, storage.data, RecordKey)
}

func TestStore_PersistFailureIsSilent(t *testing.T) {
	storage := newMockStorage()
	storage.setErr = errors.New("quota exceeded")
	n := &recordingNotifier{}
	s := newTestStore(storage, n)

	require.NotPanics(t, func() {
		s.Persist(context.Background(), Empty(fixedNow))
	})
	assert.Empty(t, n.carts)
	assert.Empty(t, n.events)
}

func TestStore_WithKey(t *testing.T) {
	storage := newMockStorage()
	s := NewStore(storage, nil, WithKey("other"))

	s.Persist(context.Background(), Empty(fixedNow))

	assert.Contains(t, storage.data, "other")
	assert.NotContains(t, storage.data, RecordKey)
}
