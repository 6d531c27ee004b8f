package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

const productColumns = `id, title, slug, description, price, currency, short_code, url,
	preview_url, thumbnail_url, tags, published, sales_count, variants, created_at, updated_at`

const (
	listProductsSQL = `SELECT ` + productColumns + `
		FROM products ORDER BY created_at DESC NULLS LAST, id`

	getProductByIDSQL = `SELECT ` + productColumns + `
		FROM products WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (` + productColumns + `, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			short_code = EXCLUDED.short_code,
			url = EXCLUDED.url,
			preview_url = EXCLUDED.preview_url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			tags = EXCLUDED.tags,
			published = EXCLUDED.published,
			sales_count = EXCLUDED.sales_count,
			variants = EXCLUDED.variants,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at,
			synced_at = EXCLUDED.synced_at`

	pruneProductsSQL = `DELETE FROM products WHERE NOT (id = ANY($1))`
)

var _ catalog.Source = (*ProductRepository)(nil)

// ProductRepository is a catalog.Source backed by the products table.
type ProductRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool, now: time.Now}
}

// List returns every mirrored product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, errors.Wrap(err, "scan products")
	}
	return products, nil
}

// Get returns a single product by its identifier.
func (r *ProductRepository) Get(ctx context.Context, id string) (*catalog.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get product %q", id)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Upsert inserts or updates products in one batch.
func (r *ProductRepository) Upsert(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}

	syncedAt := r.now()
	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(upsertProductSQL,
			p.ID, p.Title, p.Slug, p.Description, CentsToDecimal(p.Price), p.Currency,
			p.ShortCode, p.URL, p.PreviewURL, p.ThumbnailURL, nonNil(p.Tags), p.Published,
			p.SalesCount, encodeVariants(p.Variants), nullTime(p.CreatedAt), nullTime(p.UpdatedAt),
			syncedAt,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	for _, p := range products {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return errors.Wrapf(err, "upsert product %q", p.ID)
		}
	}
	if err := results.Close(); err != nil {
		return errors.Wrap(err, "close batch")
	}
	return nil
}

// Prune deletes every product whose id is not in keep. It returns the number
// of deleted rows.
func (r *ProductRepository) Prune(ctx context.Context, keep []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, pruneProductsSQL, nonNil(keep))
	if err != nil {
		return 0, errors.Wrap(err, "prune products")
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.CollectableRow) (catalog.Product, error) {
	var (
		p          catalog.Product
		price      decimal.Decimal
		variants   []byte
		salesCount int32
		createdAt  *time.Time
		updatedAt  *time.Time
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &price, &p.Currency, &p.ShortCode, &p.URL,
		&p.PreviewURL, &p.ThumbnailURL, &p.Tags, &p.Published, &salesCount, &variants,
		&createdAt, &updatedAt,
	); err != nil {
		return catalog.Product{}, err
	}

	v, err := decodeVariants(variants)
	if err != nil {
		return catalog.Product{}, errors.Wrapf(err, "product %q variants", p.ID)
	}
	p.Variants = v
	p.Price = DecimalToCents(price)
	p.SalesCount = int(salesCount)
	if createdAt != nil {
		p.CreatedAt = *createdAt
	}
	if updatedAt != nil {
		p.UpdatedAt = *updatedAt
	}
	return p, nil
}

// CentsToDecimal converts an integer cent amount to a NUMERIC dollar value.
func CentsToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DecimalToCents converts a NUMERIC dollar value to cents, rounding half away
// from zero.
func DecimalToCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func encodeVariants(variants []catalog.Variant) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, v := range variants {
		e.ObjStart()
		e.FieldStart("title")
		e.Str(v.Title)
		e.FieldStart("options")
		e.ArrStart()
		for _, o := range v.Options {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(o.Name)
			e.FieldStart("price_difference")
			e.Int64(o.PriceDifference)
			e.FieldStart("is_pay_what_you_want")
			e.Bool(o.PayWhatYouWant)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeVariants(data []byte) ([]catalog.Variant, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var out []catalog.Variant
	err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var v catalog.Variant
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "title":
				s, err := d.Str()
				v.Title = s
				return err
			case "options":
				return d.Arr(func(d *jx.Decoder) error {
					var o catalog.VariantOption
					if err := d.Obj(func(d *jx.Decoder, key string) error {
						var err error
						switch key {
						case "name":
							o.Name, err = d.Str()
						case "price_difference":
							o.PriceDifference, err = d.Int64()
						case "is_pay_what_you_want":
							o.PayWhatYouWant, err = d.Bool()
						default:
							return d.Skip()
						}
						return err
					}); err != nil {
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
