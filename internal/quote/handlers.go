package quote

import (
	"encoding/json"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/dgassoc/quoting-api/internal/common"
	"github.com/dgassoc/quoting-api/internal/obs"
)

// Handler exposes the quote recompute endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

// New handles GET /api/v1/quotes/new and returns a fresh default quote state.
func (h *Handler) New(w http.ResponseWriter, _ *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.NewQuote()})
}

// Normalize handles POST /api/v1/quotes/normalize. The client sends the full
// quote state after an edit; the response carries the recomputed state with
// derived totals and the discount line synchronised.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	var q Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote payload", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(q); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "quote failed validation", err.Error())
			return
		}
	}

	out, action := h.Svc.Normalize(q)
	if obs.DiscountApplicationsTotal != nil {
		obs.DiscountApplicationsTotal.WithLabelValues(string(action)).Inc()
	}

	eligible := EligibleQty(out.LineItems)
	common.JSON(w, http.StatusOK, map[string]any{
		"data":            out,
		"eligible_qty":    eligible,
		"discount_active": eligible >= DiscountThreshold,
	})
}
