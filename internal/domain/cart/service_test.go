package cart

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *mockStorage, *recordingNotifier) {
	storage := newMockStorage()
	n := &recordingNotifier{}
	return NewService(newTestStore(storage, n)), storage, n
}

func kitA() Candidate {
	return Candidate{ShortCode: "k1", ProductID: "p1", Title: "Kit A", UnitPrice: 500}
}

func kitB() Candidate {
	return Candidate{ShortCode: "k2", ProductID: "p2", Title: "Kit B", UnitPrice: 1250, ThumbnailURL: "https://cdn/b.png"}
}

func TestService_AddItem(t *testing.T) {
	svc, _, n := newTestService()
	ctx := context.Background()

	c := svc.AddItem(ctx, kitA())

	require.Len(t, c.Items, 1)
	assert.Equal(t, "k1", c.Items[0].ShortCode)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, fixedNow, c.Items[0].AddedAt)
	assert.Equal(t, 1, c.TotalItems)
	assert.Equal(t, int64(500), c.TotalPrice)
	assert.Equal(t, []EventName{EventCartModified, EventAddToCart}, n.names())

	c = svc.AddItem(ctx, kitA())

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, int64(1000), c.TotalPrice)

	last := n.events[len(n.events)-1]
	assert.Equal(t, EventAddToCart, last.Name)
	assert.Equal(t, 1, last.OldQuantity)
	assert.Equal(t, 2, last.NewQuantity)
	assert.Equal(t, 1, last.Quantity)
	assert.Equal(t, "Kit A", last.ProductName)
}

func TestService_AddItemKeepsFirstSnapshot(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	changed := kitA()
	changed.Title = "Kit A (renamed)"
	changed.UnitPrice = 9999

	c := svc.AddItem(ctx, changed)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "Kit A", c.Items[0].Title)
	assert.Equal(t, int64(500), c.Items[0].UnitPrice)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestService_AddItemAppendsInOrder(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitB())
	c := svc.AddItem(ctx, kitA())

	require.Len(t, c.Items, 2)
	assert.Equal(t, "k1", c.Items[0].ShortCode)
	assert.Equal(t, "k2", c.Items[1].ShortCode)
	assert.Equal(t, "https://cdn/b.png", c.Items[1].ThumbnailURL)
}

func TestService_RemoveItem(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitB())
	svc.SetQuantity(ctx, "k2", 3)
	n.events = nil

	c := svc.RemoveItem(ctx, "k2")

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(500), c.TotalPrice)
	require.Equal(t, []EventName{EventCartModified, EventRemoveFromCart}, n.names())
	removed := n.events[1]
	assert.Equal(t, "p2", removed.ProductID)
	assert.Equal(t, 3, removed.Quantity)
	assert.Equal(t, int64(1250), removed.UnitPrice)

	setsBefore := storage.sets
	n.events = nil
	again := svc.RemoveItem(ctx, "k2")

	assert.Equal(t, c, again)
	assert.Equal(t, setsBefore+1, storage.sets, "absent item still persists")
	assert.Equal(t, []EventName{EventCartModified}, n.names())
}

func TestService_SetQuantity(t *testing.T) {
	svc, _, n := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitB())
	n.events = nil

	c := svc.SetQuantity(ctx, "k1", 4)

	require.Len(t, c.Items, 2)
	assert.Equal(t, "k1", c.Items[0].ShortCode, "position unchanged")
	assert.Equal(t, 4, c.Items[0].Quantity)
	assert.Equal(t, 5, c.TotalItems)
	assert.Equal(t, int64(4*500+1250), c.TotalPrice)
	require.Equal(t, []EventName{EventCartModified, EventUpdateCartQuantity}, n.names())
	assert.Equal(t, 1, n.events[1].OldQuantity)
	assert.Equal(t, 4, n.events[1].NewQuantity)
}

func TestService_SetQuantityUnknownIsNoop(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()

	before := svc.AddItem(ctx, kitA())
	setsBefore := storage.sets
	n.events = nil

	c := svc.SetQuantity(ctx, "missing", 7)

	assert.Equal(t, before, c)
	assert.Equal(t, setsBefore, storage.sets)
	assert.Empty(t, n.events)
}

func TestService_SetQuantityZeroEqualsRemove(t *testing.T) {
	for _, qty := range []int{0, -1} {
		viaSet, _, _ := newTestService()
		viaRemove, _, _ := newTestService()
		ctx := context.Background()

		for _, svc := range []*Service{viaSet, viaRemove} {
			svc.AddItem(ctx, kitA())
			svc.AddItem(ctx, kitB())
		}

		assert.Equal(t, viaRemove.RemoveItem(ctx, "k1"), viaSet.SetQuantity(ctx, "k1", qty))
	}
}

func TestService_Clear(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitB())
	n.events = nil
	n.carts = nil

	c := svc.Clear(ctx)

	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPrice)
	assert.NotContains(t, storage.data, RecordKey)
	require.Len(t, n.carts, 1)
	assert.True(t, n.carts[0].IsEmpty())
	require.Equal(t, []EventName{EventCartCleared}, n.names())
	assert.Equal(t, 3, n.events[0].ItemCount)
}

func TestService_ClearDeleteFailure(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	storage.deleteErr = errors.New("storage unavailable")
	n.events = nil
	n.carts = nil

	c := svc.Clear(ctx)

	assert.True(t, c.IsEmpty())
	assert.Empty(t, n.carts)
	assert.Empty(t, n.events)
	assert.Equal(t, 1, svc.Count(ctx), "record survives a failed delete")
}

func TestService_WriteFailureReturnsInMemoryResult(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()
	storage.setErr = errors.New("quota exceeded")

	c := svc.AddItem(ctx, kitA())

	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(500), c.TotalPrice)
	assert.Empty(t, n.events, "no events after a lost write")
	assert.Zero(t, svc.Count(ctx))
}

func TestService_Queries(t *testing.T) {
	svc, storage, n := newTestService()
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	svc.AddItem(ctx, kitB())
	svc.AddItem(ctx, kitB())
	setsBefore := storage.sets
	eventsBefore := len(n.events)

	assert.Equal(t, 3, svc.Count(ctx))
	cents, formatted := svc.Total(ctx)
	assert.Equal(t, int64(3000), cents)
	assert.Equal(t, "$30.00", formatted)
	assert.True(t, svc.Contains(ctx, "k2"))
	assert.False(t, svc.Contains(ctx, "k3"))

	item, ok := svc.Item(ctx, "k2")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	_, ok = svc.Item(ctx, "k3")
	assert.False(t, ok)
	assert.Len(t, svc.Cart(ctx).Items, 2)

	assert.Equal(t, setsBefore, storage.sets)
	assert.Len(t, n.events, eventsBefore)
}

func TestService_TotalsAlwaysMatchItems(t *testing.T) {
	candidates := []Candidate{
		kitA(),
		kitB(),
		{ShortCode: "k3", ProductID: "p3", Title: "Kit C", UnitPrice: 1},
		{ShortCode: "k4", ProductID: "p4", Title: "Kit D", UnitPrice: 99999},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	svc, _, _ := newTestService()
	ctx := context.Background()

	for step := range 500 {
		code := candidates[rng.IntN(len(candidates))]
		var c Cart
		switch rng.IntN(3) {
		case 0:
			c = svc.AddItem(ctx, code)
		case 1:
			c = svc.RemoveItem(ctx, code.ShortCode)
		default:
			c = svc.SetQuantity(ctx, code.ShortCode, rng.IntN(6)-1)
		}

		var (
			wantItems int
			wantPrice int64
		)
		seen := map[string]bool{}
		for _, item := range c.Items {
			require.GreaterOrEqual(t, item.Quantity, 1, "step %d", step)
			require.False(t, seen[item.ShortCode], "step %d: duplicate %s", step, item.ShortCode)
			seen[item.ShortCode] = true
			wantItems += item.Quantity
			wantPrice += item.UnitPrice * int64(item.Quantity)
		}
		require.Equal(t, wantItems, c.TotalItems, "step %d", step)
		require.Equal(t, wantPrice, c.TotalPrice, "step %d", step)
		require.Equal(t, c, svc.Cart(ctx), "step %d: persisted cart differs", step)
	}
}

func TestService_LastUpdatedStamped(t *testing.T) {
	storage := newMockStorage()
	now := fixedNow
	svc := NewService(NewStore(storage, nil, WithClock(func() time.Time { return now })))
	ctx := context.Background()

	svc.AddItem(ctx, kitA())
	now = now.Add(time.Minute)
	c := svc.SetQuantity(ctx, "k1", 2)

	assert.Equal(t, fixedNow.Add(time.Minute), c.LastUpdated)
	assert.Equal(t, fixedNow, c.Items[0].AddedAt)
}
