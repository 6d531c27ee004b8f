// Package handler serves the storefront catalog JSON API.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tsksoundkits/storefront/internal/domain/audiopack"
	"github.com/tsksoundkits/storefront/internal/domain/catalog"
)

// MaxListLimit caps the limit query parameter and the product scan behind
// collections.
const MaxListLimit = 100

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// AudioBaseURL is prepended to preview file paths. When empty, paths are
	// served relative to the storefront's own /audio/ root.
	AudioBaseURL string
}

// Handler serves catalog, pack and collection endpoints.
type Handler struct {
	products     catalog.Provider
	packs        *audiopack.Registry
	audioBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(cfg HandlerConfig, products catalog.Provider, packs *audiopack.Registry) *Handler {
	return &Handler{
		products:     products,
		packs:        packs,
		audioBaseURL: cfg.AudioBaseURL,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/packs", h.ListPacks)
	mux.HandleFunc("GET /api/collections", h.ListCollections)
	mux.HandleFunc("GET /api/collections/{handle}", h.GetCollection)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Debug("Write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, r, status, &e)
}
