package store

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dgassoc/quoting-api/internal/common"
	"github.com/dgassoc/quoting-api/internal/obs"
	"github.com/dgassoc/quoting-api/internal/quote"
)

// Handler exposes the saved-quote endpoints.
type Handler struct {
	Store  Store
	Svc    *quote.Service
	Logger zerolog.Logger
}

func countSave(result string) {
	if obs.QuotesSavedTotal != nil {
		obs.QuotesSavedTotal.WithLabelValues(result).Inc()
	}
}

// Save handles POST /api/v1/quotes. The state is normalized before it is
// written so stored totals always agree with the stored line items.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var q quote.Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote payload", nil)
		return
	}
	if q.QuoteNo == "" {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "quote_no is required", nil)
		return
	}
	if h.Svc != nil {
		q, _ = h.Svc.Normalize(q)
	}

	if err := h.Store.Save(r.Context(), q); err != nil {
		countSave("error")
		h.Logger.Error().Err(err).Str("quote_no", q.QuoteNo).Msg("quote save failed")
		common.WriteError(w, common.NewAppError("STORE_FAILED", "quote could not be saved", http.StatusInternalServerError, err))
		return
	}
	countSave("ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": q})
}

// List handles GET /api/v1/quotes with optional limit and offset parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 50)
	offset := intQuery(r, "offset", 0)

	summaries, err := h.Store.List(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error().Err(err).Msg("quote list failed")
		common.WriteError(w, common.NewAppError("STORE_FAILED", "quotes could not be listed", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summaries})
}

// Get handles GET /api/v1/quotes/{quoteNo} and returns the full saved state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	quoteNo := chi.URLParam(r, "quoteNo")
	q, err := h.Store.Get(r.Context(), quoteNo)
	if errors.Is(err, ErrNotFound) {
		common.WriteError(w, common.NewAppError("NOT_FOUND", "quote not found", http.StatusNotFound, err))
		return
	}
	if err != nil {
		h.Logger.Error().Err(err).Str("quote_no", quoteNo).Msg("quote fetch failed")
		common.WriteError(w, common.NewAppError("STORE_FAILED", "quote could not be loaded", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
