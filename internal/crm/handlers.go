package crm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dgassoc/quoting-api/internal/common"
	"github.com/dgassoc/quoting-api/internal/obs"
	"github.com/dgassoc/quoting-api/internal/quote"
)

// Handler exposes directory search and apply-to-quote endpoints.
type Handler struct {
	Client Client
	Logger zerolog.Logger
}

// SearchResult is the slim projection returned per matched person.
type SearchResult struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
}

func countLookup(op, result string) {
	if obs.CRMLookupsTotal != nil {
		obs.CRMLookupsTotal.WithLabelValues(op, result).Inc()
	}
}

// Search handles GET /api/v1/contacts/search. A missing API token is not an
// error for the caller: the endpoint answers with an empty list and a warning
// so the form stays usable offline.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "query parameter q is required", nil)
		return
	}

	records, err := h.Client.SearchPersons(r.Context(), term, 20)
	if errors.Is(err, ErrNotConfigured) {
		countLookup("search", "not_configured")
		common.JSON(w, http.StatusOK, map[string]any{
			"data":    []SearchResult{},
			"warning": "contact directory is not configured",
		})
		return
	}
	if err != nil {
		countLookup("search", "error")
		h.Logger.Error().Err(err).Str("term", term).Msg("contact search failed")
		common.WriteError(w, common.NewAppError("CRM_UNAVAILABLE", "contact directory request failed", http.StatusBadGateway, err))
		return
	}
	countLookup("search", "ok")

	results := make([]SearchResult, 0, len(records))
	for _, rec := range records {
		id, ok := rec.ScalarID("id")
		if !ok {
			continue
		}
		res := SearchResult{
			ID:    id,
			Name:  rec.String("name"),
			Email: rec.FirstValue("email"),
		}
		if res.Email == "" {
			res.Email = rec.String("email")
		}
		if m, ok := rec["organization"].(map[string]any); ok {
			res.Company = Clean(m["name"])
		}
		results = append(results, res)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": results})
}

// Get handles GET /api/v1/contacts/{id}. It fetches the person, chases the
// linked organization for fallback fields, and returns the mapped customer.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.fetchCustomer(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": customer})
}

// Apply handles POST /api/v1/contacts/{id}/apply. The body is the current
// quote state; the mapped customer is merged over its customer block without
// erasing fields the operator already filled in.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var q quote.Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid quote payload", nil)
		return
	}

	customer, err := h.fetchCustomer(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	q.Customer = quote.MergeCustomer(q.Customer, customer)
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// fetchCustomer resolves the {id} route parameter into a mapped customer.
// Failures come back as AppError values so both callers render them through
// the same envelope.
func (h *Handler) fetchCustomer(r *http.Request) (quote.Customer, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return quote.Customer{}, common.NewAppError("BAD_REQUEST", "contact id must be a positive integer", http.StatusBadRequest, err)
	}

	person, err := h.Client.GetPerson(r.Context(), id)
	if errors.Is(err, ErrNotConfigured) {
		countLookup("person", "not_configured")
		return quote.Customer{}, common.NewAppError("CRM_NOT_CONFIGURED", "contact directory is not configured", http.StatusServiceUnavailable, err)
	}
	if err != nil {
		countLookup("person", "error")
		h.Logger.Error().Err(err).Int64("contact_id", id).Msg("contact fetch failed")
		return quote.Customer{}, common.NewAppError("CRM_UNAVAILABLE", "contact directory request failed", http.StatusBadGateway, err)
	}
	if person == nil {
		countLookup("person", "not_found")
		return quote.Customer{}, common.NewAppError("NOT_FOUND", "contact not found", http.StatusNotFound, nil)
	}
	countLookup("person", "ok")

	var org Record
	if orgID, ok := person.ScalarID("org_id"); ok {
		org, err = h.Client.GetOrganization(r.Context(), orgID)
		if err != nil && !errors.Is(err, ErrNotConfigured) {
			// The person record alone is still useful; log and move on.
			countLookup("organization", "error")
			h.Logger.Warn().Err(err).Int64("org_id", orgID).Msg("organization fetch failed")
			org = nil
		} else if err == nil {
			countLookup("organization", "ok")
		}
	}

	return MapPersonToCustomer(person, org), nil
}
