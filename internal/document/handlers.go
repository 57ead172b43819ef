package document

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dgassoc/quoting-api/internal/common"
	"github.com/dgassoc/quoting-api/internal/obs"
	"github.com/dgassoc/quoting-api/internal/quote"
)

// Handler exposes the document rendering endpoint.
type Handler struct {
	Gen    Generator
	Svc    *quote.Service
	Logger zerolog.Logger
}

// Render handles POST /api/v1/documents/{variant}. The body is the full
// quote state; it is normalized first so a stale client cannot print totals
// that disagree with the line items.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	variant, err := ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "variant must be quote or order", nil)
		return
	}

	var q quote.Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote payload", nil)
		return
	}
	if h.Svc != nil {
		q, _ = h.Svc.Normalize(q)
	}

	data, err := h.Gen.Generate(q, variant)
	if err != nil {
		if obs.DocumentsRenderedTotal != nil {
			obs.DocumentsRenderedTotal.WithLabelValues(string(variant), "error").Inc()
		}
		h.Logger.Error().Err(err).Str("variant", string(variant)).Str("quote_no", q.QuoteNo).Msg("document render failed")
		common.JSONError(w, http.StatusInternalServerError, "RENDER_FAILED", "document rendering failed", nil)
		return
	}
	if obs.DocumentsRenderedTotal != nil {
		obs.DocumentsRenderedTotal.WithLabelValues(string(variant), "ok").Inc()
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.pdf"`, variant, q.QuoteNo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
