// Package bridge orchestrates the webhook-to-invoice pipeline: verify the
// Donorbox request, map the payload, create an invoice with the accounting
// provider, and best-effort email it.
package bridge

import (
	"context"
	"encoding/json"

	"github.com/peteski22/donorbridge/internal/accounting"
)

// InvoiceClient is the accounting provider surface used by the bridge.
type InvoiceClient interface {
	// CreateInvoice creates an invoice and returns the provider's response
	// body verbatim.
	CreateInvoice(ctx context.Context, invoice *accounting.Invoice) (json.RawMessage, error)

	// SendInvoiceEmail sends an existing invoice to the given email address.
	SendInvoiceEmail(ctx context.Context, documentID, email string) error
}

// Request is a transport-neutral inbound webhook request, filled in by the
// Lambda and HTTP server entry points.
type Request struct {
	// Body is the raw request body. Signature verification covers these
	// exact bytes.
	Body []byte

	// Method is the HTTP method.
	Method string

	// Signature is the value of the X-Donorbox-Signature header, empty if
	// the header was absent.
	Signature string
}

// Response is a transport-neutral webhook response.
type Response struct {
	// Body is the response body.
	Body string

	// ContentType is the Content-Type header value.
	ContentType string

	// StatusCode is the HTTP status code.
	StatusCode int
}

// successResponse is the 200 response body for a created invoice.
type successResponse struct {
	// Invoice is the provider's invoice-creation response, passed through
	// unchanged.
	Invoice json.RawMessage `json:"invoice"`

	// OK is always true on success.
	OK bool `json:"ok"`
}
