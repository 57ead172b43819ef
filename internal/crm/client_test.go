package crm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHTTPClientNotConfigured(t *testing.T) {
	c := NewHTTPClient("http://localhost:0", "", time.Second)
	require.False(t, c.Configured())

	_, err := c.SearchPersons(context.Background(), "pat", 5)
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.GetPerson(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestHTTPClientSearchPersons(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/persons/search", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "secret", q.Get("api_token"))
		require.Equal(t, "pat", q.Get("term"))
		require.Equal(t, "name,email", q.Get("fields"))
		require.Equal(t, "false", q.Get("exact_match"))
		require.Equal(t, "5", q.Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[
			{"item":{"id":7,"name":"Pat Jones"}},
			{"item":{"id":9,"name":"Pat Smith"}}
		]}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", time.Second)
	records, err := c.SearchPersons(context.Background(), "pat", 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Pat Jones", records[0].String("name"))
}

func TestHTTPClientGetPerson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/persons/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":7,"name":"Pat Jones"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", time.Second)
	person, err := c.GetPerson(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Pat Jones", person.String("name"))
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":7,"name":"Pat Jones"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "secret", time.Second)
	c.baseBackoff = time.Millisecond

	person, err := c.GetPerson(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, "Pat Jones", person.String("name"))
}

func TestHTTPClientRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "wrong", time.Second)
	_, err := c.GetOrganization(context.Background(), 3)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status 401")
}
