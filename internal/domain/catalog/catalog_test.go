package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockSource struct {
	products []Product
	listErr  error
	getErr   error

	lists atomic.Int32
	gets  atomic.Int32
	// gate blocks upstream calls until closed, when set.
	gate chan struct{}
}

func (m *mockSource) List(context.Context) ([]Product, error) {
	m.lists.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockSource) Get(_ context.Context, id string) (*Product, error) {
	m.gets.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func published(id string) Product {
	return Product{ID: id, Title: "Kit " + id, Published: true}
}

// --- Tests ---

func TestBestPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		variants []Variant
		want     int64
	}{
		{name: "no variants", base: 1500, want: 1500},
		{
			name: "zero differences",
			base: 1500,
			variants: []Variant{{Title: "Tier", Options: []VariantOption{
				{Name: "Basic"}, {Name: "Free tier", PriceDifference: -100},
			}}},
			want: 1500,
		},
		{
			name: "first positive option wins",
			base: 1000,
			variants: []Variant{
				{Title: "Format", Options: []VariantOption{{Name: "WAV"}}},
				{Title: "License", Options: []VariantOption{
					{Name: "Standard", PriceDifference: 500},
					{Name: "Extended", PriceDifference: 2000},
				}},
			},
			want: 1500,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestPrice(tt.base, tt.variants))
		})
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"TSK 0A0A Intro Kit":        "tsk-0a0a-intro-kit",
		"  Sonic   Entropy!! ":      "sonic-entropy",
		"FM Percussion -- Bundle":   "fm-percussion-bundle",
		"Café Drums":                "caf-drums",
		"---":                       "",
		"808s & Heartbreak (Vol.2)": "808s-heartbreak-vol-2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Slug(in))
		})
	}
}

func TestShortCodeFromURL(t *testing.T) {
	tests := map[string]string{
		"https://tsk.gumroad.com/l/hvhjo": "hvhjo",
		"https://gumroad.com/l/abcd/":     "abcd",
		"https://gumroad.com/l/abcd?x=1":  "abcd",
		"https://gumroad.com/":            "",
		"":                                "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ShortCodeFromURL(in))
		})
	}
}

func TestProduct_CartCandidate(t *testing.T) {
	p := Product{ID: "p1", Title: "Kit A", Price: 500, ShortCode: "k1", ThumbnailURL: "https://cdn/a.png"}

	c := p.CartCandidate()
	assert.Equal(t, "k1", c.ShortCode)
	assert.Equal(t, "p1", c.ProductID)
	assert.Equal(t, int64(500), c.UnitPrice)
	assert.Equal(t, "https://cdn/a.png", c.ThumbnailURL)

	p.ShortCode = ""
	assert.Equal(t, "p1", p.CartCandidate().ShortCode)
	assert.Equal(t, "$5.00", p.FormattedPrice())
}

func TestFallback_Products(t *testing.T) {
	src := &mockSource{}
	for i := range 15 {
		p := published(string(rune('a' + i)))
		if i == 1 {
			p.Published = false
		}
		src.products = append(src.products, p)
	}
	f := NewFallback(src)
	ctx := context.Background()

	got := f.Products(ctx, 0)
	require.Len(t, got, DefaultListLimit)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID, "unpublished product skipped")

	assert.Len(t, f.Products(ctx, 3), 3)
	assert.Len(t, f.Products(ctx, 100), 14)
}

func TestFallback_ErrorsBecomeEmpty(t *testing.T) {
	src := &mockSource{listErr: errors.New("gumroad down"), getErr: errors.New("gumroad down")}
	f := NewFallback(src)
	ctx := context.Background()

	products := f.Products(ctx, 5)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	_, ok := f.Product(ctx, "a")
	assert.False(t, ok)
}

func TestFallback_Product(t *testing.T) {
	f := NewFallback(&mockSource{products: []Product{published("a")}})

	p, ok := f.Product(context.Background(), "a")
	require.True(t, ok)
	assert.Equal(t, "Kit a", p.Title)

	_, ok = f.Product(context.Background(), "missing")
	assert.False(t, ok)
}

func TestCache_ServesWithinTTL(t *testing.T) {
	src := &mockSource{products: []Product{published("a"), published("b")}}
	c := NewCache(src, time.Minute)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.List(ctx)
	require.NoError(t, err)
	_, err = c.List(ctx)
	require.NoError(t, err)
	p, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "Kit b", p.Title)

	assert.Equal(t, int32(1), src.lists.Load())
	assert.Equal(t, int32(0), src.gets.Load(), "list fills the product cache")

	now = now.Add(2 * time.Minute)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.lists.Load())

	c.Invalidate()
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.gets.Load())
}

func TestCache_DoesNotCacheErrors(t *testing.T) {
	src := &mockSource{listErr: errors.New("timeout")}
	c := NewCache(src, time.Minute)
	ctx := context.Background()

	_, err := c.List(ctx)
	require.Error(t, err)
	src.listErr = nil
	src.products = []Product{published("a")}

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCache_CoalescesConcurrentMisses(t *testing.T) {
	src := &mockSource{products: []Product{published("a")}, gate: make(chan struct{})}
	c := NewCache(src, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := c.List(ctx)
			assert.NoError(t, err)
			assert.Len(t, list, 1)
		}()
	}
	require.Eventually(t, func() bool { return src.lists.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.lists.Load())
}

func TestCollections(t *testing.T) {
	products := []Product{
		{ID: "a", Tags: []string{"Drum Kits", "free"}},
		{ID: "b", Tags: []string{"drum kits", " Presets "}},
		{ID: "c"},
	}

	got := Collections(products)
	require.Len(t, got, 3)
	assert.Equal(t, "drum-kits", got[0].Handle)
	assert.Equal(t, "Drum Kits", got[0].Title)
	assert.Equal(t, "free", got[1].Handle)
	assert.Equal(t, "presets", got[2].Handle)

	c := CollectionByHandle(products, "drum-kits")
	assert.Equal(t, "Drum kits", c.Title)
	require.Len(t, c.Products, 2)
	assert.Equal(t, "a", c.Products[0].ID)
	assert.Equal(t, "b", c.Products[1].ID)

	assert.Empty(t, CollectionByHandle(products, "one-shots").Products)
}
