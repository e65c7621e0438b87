package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peteski22/donorbridge/internal/accounting"
	"github.com/peteski22/donorbridge/internal/bridge"
	"github.com/peteski22/donorbridge/internal/config"
)

// stubInvoiceClient returns a fixed response for every invoice.
type stubInvoiceClient struct{}

func (stubInvoiceClient) CreateInvoice(_ context.Context, _ *accounting.Invoice) (json.RawMessage, error) {
	return json.RawMessage(`{"document_id":"doc-1"}`), nil
}

func (stubInvoiceClient) SendInvoiceEmail(_ context.Context, _, _ string) error {
	return nil
}

func newTestHandler(t *testing.T) http.HandlerFunc {
	t.Helper()

	svc, err := bridge.New(bridge.Config{
		Client: stubInvoiceClient{},
		InvoiceDefaults: config.Invoice{
			CompanyID: "comp-1",
			ProductID: "prod-1",
			SeriesID:  "DON-2026",
		},
		Logger: slog.Default(),
	})
	require.NoError(t, err)

	return webhookHandler(svc)
}

func TestWebhookHandler(t *testing.T) {
	t.Parallel()

	t.Run("valid donation", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/webhooks/donorbox",
			strings.NewReader(`{"data":{"id":"demo-1","amount":25,"currency":"eur"}}`))
		rec := httptest.NewRecorder()

		newTestHandler(t).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		require.JSONEq(t, `{"ok":true,"invoice":{"document_id":"doc-1"}}`, rec.Body.String())
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/webhooks/donorbox", strings.NewReader(`{"data":`))
		rec := httptest.NewRecorder()

		newTestHandler(t).ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
