package cart

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRecord_Shape(t *testing.T) {
	added := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c := Cart{
		Items: []LineItem{
			{ShortCode: "hvhjo", ProductID: "p1", Title: "Kit A", UnitPrice: 1999, Quantity: 2, AddedAt: added},
			{ShortCode: "abcd", ProductID: "p2", Title: "Kit B", UnitPrice: 500, ThumbnailURL: "https://cdn/x.png", Quantity: 1, AddedAt: added},
		},
		LastUpdated: fixedNow,
	}
	c.refold()

	var got map[string]any
	require.NoError(t, json.Unmarshal(EncodeRecord(c), &got))

	assert.Equal(t, float64(3), got["totalItems"])
	assert.Equal(t, float64(4498), got["totalPrice"])
	assert.Equal(t, "$44.98", got["formattedTotal"])
	assert.Equal(t, "2025-06-15T12:00:00Z", got["lastUpdated"])

	items, ok := got["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	first := items[0].(map[string]any)
	assert.Equal(t, "hvhjo", first["shortCode"])
	assert.Equal(t, "$19.99", first["formattedPrice"])
	assert.NotContains(t, first, "thumbnailUrl")

	second := items[1].(map[string]any)
	assert.Equal(t, "https://cdn/x.png", second["thumbnailUrl"])
}

func TestDecodeRecord_AcceptsStorefrontRecord(t *testing.T) {
	// Shape written by the browser storefront, including a null thumbnail
	// and unknown fields.
	data := []byte(`{
		"items": [{
			"shortCode": "hvhjo",
			"productId": "eDNSV8PJGMdPtWFitxPrkQ==",
			"title": "TSK Intro Kit",
			"price": 1500,
			"formattedPrice": "$15.00",
			"thumbnailUrl": null,
			"quantity": 3,
			"addedAt": "2025-06-01T10:00:00.123Z",
			"extra": {"nested": [1, 2]}
		}],
		"totalItems": 3,
		"totalPrice": 4500,
		"formattedTotal": "$45.00",
		"lastUpdated": "2025-06-01T10:05:00.000Z"
	}`)

	c, err := DecodeRecord(data)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	item := c.Items[0]
	assert.Equal(t, "hvhjo", item.ShortCode)
	assert.Equal(t, "TSK Intro Kit", item.Title)
	assert.Equal(t, int64(1500), item.UnitPrice)
	assert.Empty(t, item.ThumbnailURL)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, 123*time.Millisecond, time.Duration(item.AddedAt.Nanosecond()))
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, int64(4500), c.TotalPrice)
}

func TestDecodeRecord_ReadsEncodedRecord(t *testing.T) {
	c := Cart{
		Items: []LineItem{
			{ShortCode: "k1", ProductID: "p1", Title: "Kit A", UnitPrice: 500, Quantity: 2, AddedAt: fixedNow},
			{ShortCode: "k2", ProductID: "p2", Title: "Kit B", UnitPrice: 1999, ThumbnailURL: "https://cdn/x.png", Quantity: 1, AddedAt: fixedNow},
		},
		LastUpdated: fixedNow,
	}
	c.refold()

	got, err := DecodeRecord(EncodeRecord(c))
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "$0.00"},
		{cents: 5, want: "$0.05"},
		{cents: 500, want: "$5.00"},
		{cents: 1999, want: "$19.99"},
		{cents: 123456, want: "$1234.56"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCents(tt.cents))
		})
	}
}
