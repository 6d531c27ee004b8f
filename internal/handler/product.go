package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsksoundkits/storefront/internal/domain/audiopack"
	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

// ListProducts returns published products. The optional limit query
// parameter defaults to catalog.DefaultListLimit and is capped at
// MaxListLimit.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := catalog.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	products := h.products.Products(r.Context(), limit)
	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.Int("catalog.limit", limit),
		attribute.Int("catalog.products", len(products)),
	)

	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		h.encodeProduct(&e, p, false)
	}
	e.ArrEnd()
	writeJSON(w, r, http.StatusOK, &e)
}

// GetProduct returns a single product with its audio previews.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("catalog.product_id", id))

	p, ok := h.products.Product(r.Context(), id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "product not found")
		return
	}

	var e jx.Encoder
	h.encodeProduct(&e, p, true)
	writeJSON(w, r, http.StatusOK, &e)
}

func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product, withPreviews bool) {
	c := p.CartCandidate()

	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("title")
	e.Str(p.Title)
	e.FieldStart("slug")
	e.Str(p.Slug)
	e.FieldStart("path")
	e.Str(h.packs.ProductPath(p.ID, p.Title))
	if p.Description != "" {
		e.FieldStart("description")
		e.Str(p.Description)
	}
	e.FieldStart("price")
	e.Int64(p.Price)
	e.FieldStart("formattedPrice")
	e.Str(p.FormattedPrice())
	e.FieldStart("currency")
	e.Str(p.Currency)
	e.FieldStart("shortCode")
	e.Str(c.ShortCode)
	e.FieldStart("url")
	e.Str(p.URL)
	if p.ThumbnailURL != "" {
		e.FieldStart("thumbnailUrl")
		e.Str(p.ThumbnailURL)
	}
	if p.PreviewURL != "" {
		e.FieldStart("previewUrl")
		e.Str(p.PreviewURL)
	}
	e.FieldStart("tags")
	e.ArrStart()
	for _, t := range p.Tags {
		e.Str(t)
	}
	e.ArrEnd()
	e.FieldStart("salesCount")
	e.Int(p.SalesCount)

	if len(p.Variants) > 0 {
		e.FieldStart("variants")
		e.ArrStart()
		for _, v := range p.Variants {
			e.ObjStart()
			e.FieldStart("title")
			e.Str(v.Title)
			e.FieldStart("options")
			e.ArrStart()
			for _, o := range v.Options {
				e.ObjStart()
				e.FieldStart("name")
				e.Str(o.Name)
				e.FieldStart("priceDifference")
				e.Int64(o.PriceDifference)
				e.FieldStart("payWhatYouWant")
				e.Bool(o.PayWhatYouWant)
				e.ObjEnd()
			}
			e.ArrEnd()
			e.ObjEnd()
		}
		e.ArrEnd()
	}

	if withPreviews {
		e.FieldStart("previews")
		e.ArrStart()
		if pack, ok := h.packs.ByProductID(p.ID); ok {
			for _, f := range pack.Files {
				h.encodeFile(e, f)
			}
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

func (h *Handler) encodeFile(e *jx.Encoder, f audiopack.File) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(f.Name)
	e.FieldStart("filename")
	e.Str(f.Filename)
	e.FieldStart("url")
	e.Str(h.audioBaseURL + f.Path)
	e.ObjEnd()
}
