package accounting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// newProviderServer serves the token endpoint plus the given API handler, so
// client calls can authenticate against the same test server.
func newProviderServer(t *testing.T, apiHandler http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-access-token","expires_in":3600,"token_type":"Bearer"}`))
	})
	mux.HandleFunc("/", apiHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// newTestClient creates a client pointed at the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()

	client, err := NewClient(Config{
		BaseURL:      server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CompanyID:    "comp-1",
		TokenStore:   &mockTokenStore{refreshToken: "refresh-token"},
	}, WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	validConfig := Config{
		BaseURL:      "https://api.example.com",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		CompanyID:    "comp-1",
		TokenStore:   &mockTokenStore{},
	}

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(validConfig)

		require.NoError(t, err)
		require.NotNil(t, client)
	})

	t.Run("trailing slash trimmed from base URL", func(t *testing.T) {
		t.Parallel()

		cfg := validConfig
		cfg.BaseURL = "https://api.example.com/"

		client, err := NewClient(cfg)

		require.NoError(t, err)
		require.Equal(t, "https://api.example.com", client.baseURL)
	})

	t.Run("token URL derived from base URL", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(validConfig)

		require.NoError(t, err)
		require.Equal(t, "https://api.example.com/v1/oauth/token", client.tokenManager.tokenURL)
	})

	t.Run("token URL option overrides", func(t *testing.T) {
		t.Parallel()

		client, err := NewClient(validConfig, WithTokenURL("https://auth.example.com/token"))

		require.NoError(t, err)
		require.Equal(t, "https://auth.example.com/token", client.tokenManager.tokenURL)
	})

	tests := map[string]struct {
		errMsg string
		mutate func(*Config)
	}{
		"missing base URL": {
			errMsg: "base URL is required",
			mutate: func(c *Config) { c.BaseURL = "" },
		},
		"missing client ID": {
			errMsg: "client ID is required",
			mutate: func(c *Config) { c.ClientID = "" },
		},
		"missing client secret": {
			errMsg: "client secret is required",
			mutate: func(c *Config) { c.ClientSecret = "" },
		},
		"missing company ID": {
			errMsg: "company ID is required",
			mutate: func(c *Config) { c.CompanyID = "" },
		},
		"missing token store": {
			errMsg: "token store is required",
			mutate: func(c *Config) { c.TokenStore = nil },
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig
			tc.mutate(&cfg)

			client, err := NewClient(cfg)

			require.Error(t, err)
			require.Contains(t, err.Error(), tc.errMsg)
			require.Nil(t, client)
		})
	}
}

func TestClient_CreateInvoice(t *testing.T) {
	t.Parallel()

	t.Run("posts invoice and returns response verbatim", func(t *testing.T) {
		t.Parallel()

		var gotAuth string
		var gotInvoice Invoice
		server := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/invoices", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotInvoice))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"document_id":"doc-42","status":"issued"}`))
		})

		client := newTestClient(t, server)

		invoice := &Invoice{
			CompanyID: "comp-1",
			Currency:  "EUR",
			Customer:  Customer{Name: "Test Donor", Email: "demo@example.com"},
			DueDate:   "2026-03-14",
			IssueDate: "2026-03-14",
			Items: []LineItem{{
				Description: "Donation - General Fund",
				ProductID:   "prod-1",
				Quantity:    1,
				Taxes:       []Tax{},
				UnitPrice:   25,
			}},
			SeriesID: "DON-2026",
		}

		raw, err := client.CreateInvoice(context.Background(), invoice)

		require.NoError(t, err)
		require.JSONEq(t, `{"document_id":"doc-42","status":"issued"}`, string(raw))
		require.Equal(t, "Bearer test-access-token", gotAuth)
		require.Equal(t, *invoice, gotInvoice)
	})

	t.Run("non-success status returns APIError", func(t *testing.T) {
		t.Parallel()

		server := newProviderServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"series exhausted"}`))
		})

		client := newTestClient(t, server)

		raw, err := client.CreateInvoice(context.Background(), &Invoice{})

		require.Nil(t, raw)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		require.Contains(t, apiErr.Body, "series exhausted")
	})

	t.Run("token refresh failure surfaces as AuthError", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/v1/oauth/token", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)

		client := newTestClient(t, server)

		_, err := client.CreateInvoice(context.Background(), &Invoice{})

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		require.Equal(t, http.StatusBadRequest, authErr.StatusCode)
	})
}

func TestClient_SendInvoiceEmail(t *testing.T) {
	t.Parallel()

	t.Run("posts document id, email and company id", func(t *testing.T) {
		t.Parallel()

		var got emailRequest
		server := newProviderServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/invoices/email", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			w.WriteHeader(http.StatusAccepted)
		})

		client := newTestClient(t, server)

		err := client.SendInvoiceEmail(context.Background(), "doc-42", "demo@example.com")

		require.NoError(t, err)
		require.Equal(t, emailRequest{
			CompanyID:  "comp-1",
			DocumentID: "doc-42",
			Email:      "demo@example.com",
		}, got)
	})

	t.Run("non-success status returns APIError", func(t *testing.T) {
		t.Parallel()

		server := newProviderServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("smtp relay down"))
		})

		client := newTestClient(t, server)

		err := client.SendInvoiceEmail(context.Background(), "doc-42", "demo@example.com")

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		require.Contains(t, apiErr.Body, "smtp relay down")
	})
}
