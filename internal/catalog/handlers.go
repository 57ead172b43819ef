package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgassoc/quoting-api/internal/common"
)

// Handler exposes read-only catalog endpoints.
type Handler struct {
	Catalog *Catalog
}

// List handles GET /api/v1/products.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Catalog.Products()})
}

// Get handles GET /api/v1/products/{sku}. An unknown SKU is an expected
// outcome during quote entry, so the response stays 200 with found=false
// instead of a 404.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	p, ok := h.Catalog.Lookup(sku)
	if !ok {
		common.JSON(w, http.StatusOK, map[string]any{"data": nil, "found": false})
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": p, "found": true})
}
