package gumroad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

const productsBody = `{
	"success": true,
	"products": [
		{
			"id": "eDNSV8PJGMdPtWFitxPrkQ==",
			"name": "TSK Intro Kit",
			"description": "<p>Drums</p>",
			"price": 1000,
			"currency": "usd",
			"short_url": "https://tsk.gumroad.com/l/hvhjo",
			"thumbnail_url": null,
			"cover_url": "https://public-files.gumroad.com/cover.png",
			"tags": ["drums", " one shots "],
			"published": true,
			"sales_count": "42",
			"created_at": "2024-01-02T03:04:05Z",
			"variants": [
				{"title": "License", "options": [
					{"name": "Standard", "price_difference": 0, "is_pay_what_you_want": false},
					{"name": "Extended", "price_difference": 500, "is_pay_what_you_want": false}
				]}
			],
			"file_info": {"size_bytes": 12345}
		},
		{
			"id": "draft",
			"title": "Draft Pack",
			"price": 0,
			"tags": "presets, bundles",
			"published": false
		}
	]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("secret", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestClient_List(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(productsBody))
	})

	products, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "eDNSV8PJGMdPtWFitxPrkQ==", p.ID)
	assert.Equal(t, "TSK Intro Kit", p.Title)
	assert.Equal(t, "tsk-intro-kit", p.Slug)
	assert.Equal(t, int64(1500), p.Price, "best variant price")
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, "hvhjo", p.ShortCode)
	assert.Equal(t, "https://tsk.gumroad.com/l/hvhjo", p.URL)
	assert.Equal(t, "https://public-files.gumroad.com/cover.png", p.ThumbnailURL)
	assert.Equal(t, []string{"drums", "one shots"}, p.Tags)
	assert.True(t, p.Published)
	assert.Equal(t, 42, p.SalesCount)
	assert.Equal(t, 2024, p.CreatedAt.Year())
	require.Len(t, p.Variants, 1)
	assert.Len(t, p.Variants[0].Options, 2)

	draft := products[1]
	assert.Equal(t, "Draft Pack", draft.Title)
	assert.Equal(t, []string{"presets", "bundles"}, draft.Tags)
	assert.Equal(t, "https://gumroad.com/p/draft", draft.URL)
	assert.Empty(t, draft.ShortCode)
	assert.False(t, draft.Published)
}

func TestClient_Get(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/abc":
			_, _ = w.Write([]byte(`{"success":true,"product":{"id":"abc","name":"Kit","price":700,"published":true}}`))
		case "/products/gone":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"The product was not found."}`))
		case "/products/null":
			_, _ = w.Write([]byte(`{"success":true,"product":null}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	p, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Kit", p.Title)
	assert.Equal(t, int64(700), p.Price)

	_, err = c.Get(ctx, "gone")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = c.Get(ctx, "null")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = c.Get(ctx, "boom")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestClient_UnsuccessfulBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"The access token is invalid."}`))
	})

	_, err := c.List(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "The access token is invalid.", apiErr.Message)
	assert.Contains(t, err.Error(), "access token is invalid")
}

func TestClient_MalformedBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"products":[{"id":1}]}`))
	})

	_, err := c.List(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_FeedsFallback(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(productsBody))
	})

	products := catalog.NewFallback(c).Products(context.Background(), 0)
	require.Len(t, products, 1)
	assert.Equal(t, "hvhjo", products[0].CartCandidate().ShortCode)
}
