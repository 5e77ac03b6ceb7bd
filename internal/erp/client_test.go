package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchPageSendsPagingParams(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Catalog_Organizations", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "json", q.Get("$format"))
		require.Equal(t, "500", q.Get("$top"))
		require.Equal(t, "1000", q.Get("$skip"))
		require.Equal(t, "IsFolder eq false", q.Get("$filter"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "svc", user)
		require.Equal(t, "secret", pass)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"value": []map[string]interface{}{
				{"Ref_Key": "a0000000-0000-0000-0000-000000000001", "Description": "Head Office"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Username: "svc", Password: "secret"})
	page, err := client.FetchPage(context.Background(), "Catalog_Organizations", 500, 1000, "IsFolder eq false")
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "Head Office", page[0]["Description"])
}

func TestFetchPageEmptyValue(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"value": []map[string]interface{}{}})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	page, err := client.FetchPage(context.Background(), "Catalog_Organizations", 500, 0, "")
	require.NoError(t, err)
	require.Empty(t, page)
}

func TestFetchPageBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.FetchPage(context.Background(), "Catalog_Organizations", 500, 0, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestCreateDocumentReturnsRefKey(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/Document_PaymentOrder", r.URL.Path)

		var fields map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		require.Equal(t, "Acme", fields["Counterparty"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"Ref_Key": "b0000000-0000-0000-0000-000000000001"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	refKey, err := client.CreateDocument(context.Background(), "Document_PaymentOrder", Record{"Counterparty": "Acme"})
	require.NoError(t, err)
	require.Equal(t, "b0000000-0000-0000-0000-000000000001", refKey)
}

func TestCreateDocumentRejectsNullRef(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"Ref_Key": NullRef})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	_, err := client.CreateDocument(context.Background(), "Document_PaymentOrder", Record{})
	require.Error(t, err)
}

func TestPingAuthRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	err := client.Ping(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth rejected")
}

func TestPingTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.Error(t, client.Ping(context.Background()))
}

func TestPingOK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, client.Ping(context.Background()))
}
