package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *chi.Mux {
	c, _ := Load("")
	h := &Handler{Catalog: c}
	r := chi.NewRouter()
	r.Get("/products", h.List)
	r.Get("/products/{sku}", h.Get)
	return r
}

func TestListProducts(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 4)
	require.Equal(t, "M5-ST", body.Data[0].SKU)
}

func TestGetProductFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/m7-pt", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data  *Product `json:"data"`
		Found bool     `json:"found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Found)
	require.Equal(t, 399.00, body.Data.UnitPrice)
}

func TestGetProductNotFoundStays200(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/NOPE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data  *Product `json:"data"`
		Found bool     `json:"found"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Found)
	require.Nil(t, body.Data)
}
