package cart

import (
	"math"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Record field names follow the storefront's session record so existing
// sessions keep decoding.
const (
	fieldItems          = "items"
	fieldTotalItems     = "totalItems"
	fieldTotalPrice     = "totalPrice"
	fieldFormattedTotal = "formattedTotal"
	fieldLastUpdated    = "lastUpdated"

	fieldShortCode      = "shortCode"
	fieldProductID      = "productId"
	fieldTitle          = "title"
	fieldPrice          = "price"
	fieldFormattedPrice = "formattedPrice"
	fieldThumbnailURL   = "thumbnailUrl"
	fieldQuantity       = "quantity"
	fieldAddedAt        = "addedAt"
)

// EncodeRecord serializes c into its persisted JSON form. Formatted price
// strings are written for display consumers only.
func EncodeRecord(c Cart) []byte {
	var e jx.Encoder
	e.ObjStart()

	e.FieldStart(fieldItems)
	e.ArrStart()
	for _, item := range c.Items {
		encodeItem(&e, item)
	}
	e.ArrEnd()

	e.FieldStart(fieldTotalItems)
	e.Int(c.TotalItems)
	e.FieldStart(fieldTotalPrice)
	e.Int64(c.TotalPrice)
	e.FieldStart(fieldFormattedTotal)
	e.Str(c.FormattedTotal())
	e.FieldStart(fieldLastUpdated)
	e.Str(formatTime(c.LastUpdated))

	e.ObjEnd()
	return e.Bytes()
}

func encodeItem(e *jx.Encoder, item LineItem) {
	e.ObjStart()
	e.FieldStart(fieldShortCode)
	e.Str(item.ShortCode)
	e.FieldStart(fieldProductID)
	e.Str(item.ProductID)
	e.FieldStart(fieldTitle)
	e.Str(item.Title)
	e.FieldStart(fieldPrice)
	e.Int64(item.UnitPrice)
	e.FieldStart(fieldFormattedPrice)
	e.Str(item.FormattedPrice())
	if item.ThumbnailURL != "" {
		e.FieldStart(fieldThumbnailURL)
		e.Str(item.ThumbnailURL)
	}
	e.FieldStart(fieldQuantity)
	e.Int(item.Quantity)
	e.FieldStart(fieldAddedAt)
	e.Str(formatTime(item.AddedAt))
	e.ObjEnd()
}

// DecodeRecord parses a persisted record. Stored totals are ignored and
// recomputed from the items; a record whose items break the cart invariants
// is rejected.
func DecodeRecord(data []byte) (Cart, error) {
	var c Cart
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case fieldItems:
			c.Items = []LineItem{}
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				c.Items = append(c.Items, item)
				return nil
			})
		case fieldLastUpdated:
			t, err := decodeTime(d)
			if err != nil {
				return errors.Wrap(err, "lastUpdated")
			}
			c.LastUpdated = t
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return Cart{}, errors.Wrap(err, "decode cart")
	}
	if d.Next() != jx.Invalid {
		return Cart{}, errors.New("decode cart: trailing data")
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	if err := validate(c.Items); err != nil {
		return Cart{}, err
	}
	c.refold()
	return c, nil
}

func decodeItem(d *jx.Decoder) (LineItem, error) {
	var item LineItem
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case fieldShortCode:
			item.ShortCode, err = d.Str()
		case fieldProductID:
			item.ProductID, err = d.Str()
		case fieldTitle:
			item.Title, err = d.Str()
		case fieldPrice:
			item.UnitPrice, err = d.Int64()
		case fieldThumbnailURL:
			if d.Next() == jx.Null {
				return d.Null()
			}
			item.ThumbnailURL, err = d.Str()
		case fieldQuantity:
			item.Quantity, err = d.Int()
		case fieldAddedAt:
			item.AddedAt, err = decodeTime(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return item, err
}

func validate(items []LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ShortCode == "" {
			return errors.New("line item without short code")
		}
		if item.Quantity < 1 {
			return errors.Errorf("line item %q: quantity %d", item.ShortCode, item.Quantity)
		}
		if item.UnitPrice < 0 {
			return errors.Errorf("line item %q: price %d", item.ShortCode, item.UnitPrice)
		}
		if item.UnitPrice > 0 && int64(item.Quantity) > math.MaxInt64/item.UnitPrice {
			return errors.Errorf("line item %q: subtotal overflows", item.ShortCode)
		}
		if _, dup := seen[item.ShortCode]; dup {
			return errors.Errorf("duplicate line item %q", item.ShortCode)
		}
		seen[item.ShortCode] = struct{}{}
	}
	return nil
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	s, err := d.Str()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, s)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
