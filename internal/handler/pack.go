package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

// ListPacks returns every bundled preview pack.
func (h *Handler) ListPacks(w http.ResponseWriter, r *http.Request) {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range h.packs.All() {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(p.ID)
		e.FieldStart("name")
		e.Str(p.Name)
		e.FieldStart("slug")
		e.Str(p.Slug)
		e.FieldStart("description")
		e.Str(p.Description)
		e.FieldStart("productId")
		e.Str(p.ProductID)
		e.FieldStart("files")
		e.ArrStart()
		for _, f := range p.Files {
			h.encodeFile(&e, f)
		}
		e.ArrEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
	writeJSON(w, r, http.StatusOK, &e)
}

// ListCollections returns the tag collections of the published catalog
// without their products.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections := catalog.Collections(h.products.Products(r.Context(), MaxListLimit))

	var e jx.Encoder
	e.ArrStart()
	for _, c := range collections {
		h.encodeCollection(&e, c)
	}
	e.ArrEnd()
	writeJSON(w, r, http.StatusOK, &e)
}

// GetCollection returns the products of one tag collection. An unknown
// handle yields an empty collection rather than 404.
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("catalog.collection", handle))

	c := catalog.CollectionByHandle(h.products.Products(r.Context(), MaxListLimit), handle)

	var e jx.Encoder
	h.encodeCollection(&e, c)
	writeJSON(w, r, http.StatusOK, &e)
}

func (h *Handler) encodeCollection(e *jx.Encoder, c catalog.Collection) {
	e.ObjStart()
	e.FieldStart("handle")
	e.Str(c.Handle)
	e.FieldStart("title")
	e.Str(c.Title)
	e.FieldStart("description")
	e.Str(c.Description)
	if c.Products != nil {
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range c.Products {
			h.encodeProduct(e, p, false)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}
