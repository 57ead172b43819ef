package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dgassoc/quoting-api/internal/quote"
)

type memStore struct {
	quotes  map[string]quote.Quote
	saveErr error
	listErr error
}

func newMemStore() *memStore {
	return &memStore{quotes: map[string]quote.Quote{}}
}

func (m *memStore) Save(_ context.Context, q quote.Quote) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.quotes[q.QuoteNo] = q
	return nil
}

func (m *memStore) List(context.Context, int, int) ([]Summary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []Summary{}
	for _, q := range m.quotes {
		out = append(out, Summary{
			QuoteNo:    q.QuoteNo,
			Date:       q.Date,
			Company:    q.Customer.Company,
			Contact:    q.Customer.Name,
			Email:      q.Customer.Email,
			GrandTotal: q.Totals.GrandTotal,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuoteNo > out[j].QuoteNo })
	return out, nil
}

func (m *memStore) Get(_ context.Context, quoteNo string) (quote.Quote, error) {
	q, ok := m.quotes[quoteNo]
	if !ok {
		return quote.Quote{}, ErrNotFound
	}
	return q, nil
}

func newTestRouter(t *testing.T, mem *memStore) *chi.Mux {
	t.Helper()
	svc, err := quote.NewService(0, 0.0975, "CZ", "NET 30")
	require.NoError(t, err)
	h := &Handler{Store: mem, Svc: svc, Logger: zerolog.Nop()}
	r := chi.NewRouter()
	r.Post("/quotes", h.Save)
	r.Get("/quotes", h.List)
	r.Get("/quotes/{quoteNo}", h.Get)
	return r
}

func sampleQuote(no string) quote.Quote {
	return quote.Quote{
		QuoteNo: no,
		Date:    time.Date(2026, 8, 29, 10, 15, 0, 0, time.UTC),
		Customer: quote.Customer{
			Company: "Hilltop Disc Club",
			Name:    "Pat Jones",
			Email:   "pat@discclub.org",
		},
		LineItems: []quote.LineItem{{SKU: "M5-ST", Name: "Mach 5 Standard", Qty: 2, Unit: 499}},
		Tax:       quote.TaxConfig{UseCountyRate: true},
	}
}

func TestSaveHandlerNormalizesBeforeStoring(t *testing.T) {
	mem := newMemStore()
	payload, err := json.Marshal(sampleQuote("20260829-1015"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(t, mem).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	stored, ok := mem.quotes["20260829-1015"]
	require.True(t, ok)
	require.Equal(t, 998.00, stored.Totals.Subtotal)
	require.Equal(t, 97.31, stored.Totals.SalesTax)
	require.Equal(t, 1095.31, stored.Totals.GrandTotal)
	require.Equal(t, "20260829-1015", stored.Order.OrderNumber)
}

func TestSaveHandlerUpsertsSameNumber(t *testing.T) {
	mem := newMemStore()
	router := newTestRouter(t, mem)

	for _, qty := range []int{2, 5} {
		q := sampleQuote("20260829-1015")
		q.LineItems[0].Qty = qty
		payload, err := json.Marshal(q)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(payload)))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	require.Len(t, mem.quotes, 1)
	require.Equal(t, 2495.00, mem.quotes["20260829-1015"].Totals.Subtotal)
}

func TestSaveHandlerRequiresQuoteNo(t *testing.T) {
	mem := newMemStore()
	payload, err := json.Marshal(sampleQuote(""))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(t, mem).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(payload)))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Empty(t, mem.quotes)
}

func TestSaveHandlerStoreFailure(t *testing.T) {
	mem := newMemStore()
	mem.saveErr = errors.New("connection refused")
	payload, err := json.Marshal(sampleQuote("20260829-1015"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	newTestRouter(t, mem).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", bytes.NewReader(payload)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "STORE_FAILED")
}

func TestListHandler(t *testing.T) {
	mem := newMemStore()
	mem.quotes["20260829-1015"] = sampleQuote("20260829-1015")
	mem.quotes["20260829-1020"] = sampleQuote("20260829-1020")

	rec := httptest.NewRecorder()
	newTestRouter(t, mem).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	require.Equal(t, "20260829-1020", body.Data[0].QuoteNo)
	require.Equal(t, "Hilltop Disc Club", body.Data[0].Company)
}

func TestGetHandlerRoundTrips(t *testing.T) {
	mem := newMemStore()
	mem.quotes["20260829-1015"] = sampleQuote("20260829-1015")

	rec := httptest.NewRecorder()
	newTestRouter(t, mem).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes/20260829-1015", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data quote.Quote `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Pat Jones", body.Data.Customer.Name)
	require.Len(t, body.Data.LineItems, 1)
}

func TestGetHandlerNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, newMemStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes/19990101-0000", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestSaveHandlerRejectsMalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, newMemStore()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader("{oops")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
