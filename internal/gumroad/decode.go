package gumroad

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

// product is the subset of a Gumroad product the storefront reads.
type product struct {
	ID           string
	Name         string
	Title        string
	Description  string
	Price        int64
	Currency     string
	URL          string
	ShortURL     string
	PreviewURL   string
	ThumbnailURL string
	CoverURL     string
	Tags         []string
	Published    bool
	SalesCount   int64
	Variants     []catalog.Variant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func decodeProduct(d *jx.Decoder) (catalog.Product, error) {
	var p product
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = optString(d)
		case "name":
			p.Name, err = optString(d)
		case "title":
			p.Title, err = optString(d)
		case "description":
			p.Description, err = optString(d)
		case "price":
			p.Price, err = optInt(d)
		case "currency":
			p.Currency, err = optString(d)
		case "url":
			p.URL, err = optString(d)
		case "short_url":
			p.ShortURL, err = optString(d)
		case "preview_url":
			p.PreviewURL, err = optString(d)
		case "thumbnail_url":
			p.ThumbnailURL, err = optString(d)
		case "cover_url":
			p.CoverURL, err = optString(d)
		case "tags":
			p.Tags, err = decodeTags(d)
		case "published":
			p.Published, err = optBool(d)
		case "sales_count":
			p.SalesCount, err = optInt(d)
		case "variants":
			p.Variants, err = decodeVariants(d)
		case "created_at":
			p.CreatedAt, err = optTime(d)
		case "updated_at":
			p.UpdatedAt, err = optTime(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	}); err != nil {
		return catalog.Product{}, errors.Wrap(err, "decode product")
	}
	return p.toCatalog(), nil
}

func (p product) toCatalog() catalog.Product {
	title := p.Name
	if title == "" {
		title = p.Title
	}
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	u := p.ShortURL
	if u == "" {
		u = p.URL
	}
	if u == "" {
		u = "https://gumroad.com/p/" + p.ID
	}
	thumb := p.ThumbnailURL
	if thumb == "" {
		thumb = p.CoverURL
	}
	return catalog.Product{
		ID:           p.ID,
		Title:        title,
		Slug:         catalog.Slug(title),
		Description:  p.Description,
		Price:        catalog.BestPrice(p.Price, p.Variants),
		Currency:     strings.ToUpper(currency),
		ShortCode:    catalog.ShortCodeFromURL(p.ShortURL),
		URL:          u,
		PreviewURL:   p.PreviewURL,
		ThumbnailURL: thumb,
		Tags:         p.Tags,
		Published:    p.Published,
		SalesCount:   int(p.SalesCount),
		Variants:     p.Variants,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func decodeVariants(d *jx.Decoder) ([]catalog.Variant, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	var out []catalog.Variant
	err := d.Arr(func(d *jx.Decoder) error {
		var v catalog.Variant
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "title":
				s, err := optString(d)
				v.Title = s
				return err
			case "options":
				if d.Next() == jx.Null {
					return d.Null()
				}
				return d.Arr(func(d *jx.Decoder) error {
					o, err := decodeOption(d)
					if err != nil {
						return err
					}
					v.Options = append(v.Options, o)
					return nil
				})
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

func decodeOption(d *jx.Decoder) (catalog.VariantOption, error) {
	var o catalog.VariantOption
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "name":
			o.Name, err = optString(d)
		case "price_difference":
			o.PriceDifference, err = optInt(d)
		case "is_pay_what_you_want":
			o.PayWhatYouWant, err = optBool(d)
		default:
			return d.Skip()
		}
		return err
	})
	return o, err
}

// decodeTags accepts a comma separated string or an array of strings.
func decodeTags(d *jx.Decoder) ([]string, error) {
	switch d.Next() {
	case jx.Null:
		return nil, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		var tags []string
		for _, t := range strings.Split(s, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags, nil
	default:
		var tags []string
		err := d.Arr(func(d *jx.Decoder) error {
			s, err := optString(d)
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
			return err
		})
		return tags, err
	}
}

func optString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func optBool(d *jx.Decoder) (bool, error) {
	if d.Next() == jx.Null {
		return false, d.Null()
	}
	return d.Bool()
}

// optInt reads an integer that Gumroad may send as a number, a numeric
// string or null.
func optInt(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Null:
		return 0, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil || s == "" {
			return 0, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int64(math.Round(f)), nil
	default:
		f, err := d.Float64()
		if err != nil {
			return 0, err
		}
		return int64(math.Round(f)), nil
	}
}

func optTime(d *jx.Decoder) (time.Time, error) {
	s, err := optString(d)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}
