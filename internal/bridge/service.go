package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/peteski22/donorbridge/internal/config"
	"github.com/peteski22/donorbridge/internal/donorbox"
)

// Config holds the required configuration for creating a Service.
type Config struct {
	// Client is the accounting provider client.
	Client InvoiceClient

	// InvoiceDefaults contains default values applied to every invoice.
	InvoiceDefaults config.Invoice

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// WebhookSecret enables signature verification when non-empty.
	WebhookSecret string
}

// validate checks that all required Config fields are set.
func (c *Config) validate() error {
	var errs []error
	if c.Client == nil {
		errs = append(errs, errors.New("invoice client is required"))
	}
	if c.InvoiceDefaults.CompanyID == "" {
		errs = append(errs, errors.New("invoice defaults company ID is required"))
	}
	if c.InvoiceDefaults.ProductID == "" {
		errs = append(errs, errors.New("invoice defaults product ID is required"))
	}
	if c.InvoiceDefaults.SeriesID == "" {
		errs = append(errs, errors.New("invoice defaults series ID is required"))
	}
	return errors.Join(errs...)
}

// Service handles one webhook request at a time: each invocation is
// independent and nothing is shared across requests beyond the client's
// access token cache.
type Service struct {
	client          InvoiceClient
	invoiceDefaults config.Invoice
	logger          *slog.Logger
	webhookSecret   string
}

// New creates a new webhook bridge service.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:          cfg.Client,
		invoiceDefaults: cfg.InvoiceDefaults,
		logger:          logger,
		webhookSecret:   cfg.WebhookSecret,
	}, nil
}

// HandleWebhook runs the full pipeline for one inbound webhook request.
// Failures from the upstream provider return 502 so Donorbox retries the
// delivery per its own policy; this service never retries on its own.
func (s *Service) HandleWebhook(ctx context.Context, req Request) Response {
	if req.Method != http.MethodPost {
		return plainText(http.StatusMethodNotAllowed, "method not allowed")
	}

	if s.webhookSecret != "" && !donorbox.VerifySignature(req.Body, req.Signature, s.webhookSecret) {
		s.logger.WarnContext(ctx, "webhook signature verification failed")
		return plainText(http.StatusUnauthorized, "invalid signature")
	}

	var payload map[string]any
	if err := json.Unmarshal(req.Body, &payload); err != nil {
		return plainText(http.StatusBadRequest, "invalid JSON payload")
	}

	donation := donorbox.ParseDonation(payload)
	if donation.Amount == 0 || donation.Currency == "" {
		s.logger.WarnContext(ctx, "donation not invoiceable",
			"external_id", donation.ExternalID,
			"amount", donation.Amount,
			"currency", donation.Currency)
		return plainText(http.StatusUnprocessableEntity, "donation is missing amount or currency")
	}

	invoice := donation.ToInvoice(s.invoiceDefaults, time.Now())

	s.logger.InfoContext(ctx, "creating invoice",
		"external_id", donation.ExternalID,
		"amount", donation.Amount,
		"currency", donation.Currency,
		"campaign", donation.Campaign)

	raw, err := s.client.CreateInvoice(ctx, invoice)
	if err != nil {
		s.logger.ErrorContext(ctx, "invoice creation failed",
			"external_id", donation.ExternalID,
			"error", err)
		return plainText(http.StatusBadGateway, fmt.Sprintf("invoice creation failed: %v", err))
	}

	documentID := extractDocumentID(raw)

	recipient := donation.DonorEmail
	if recipient == "" {
		recipient = s.invoiceDefaults.FallbackEmail
	}

	// Email delivery is best-effort, at most one attempt: the invoice outcome
	// has already been decided and the email result must never change it. The
	// goroutine outlives this request, so it gets a context detached from the
	// request's cancellation.
	if documentID != "" && recipient != "" {
		go s.sendInvoiceEmail(context.WithoutCancel(ctx), documentID, recipient)
	}

	body, err := json.Marshal(successResponse{Invoice: raw, OK: true})
	if err != nil {
		s.logger.ErrorContext(ctx, "encoding success response", "error", err)
		return plainText(http.StatusBadGateway, "invalid provider response")
	}

	return Response{
		Body:        string(body),
		ContentType: "application/json",
		StatusCode:  http.StatusOK,
	}
}

// sendInvoiceEmail sends the invoice email and routes the outcome to the log
// only.
func (s *Service) sendInvoiceEmail(ctx context.Context, documentID, recipient string) {
	if err := s.client.SendInvoiceEmail(ctx, documentID, recipient); err != nil {
		s.logger.ErrorContext(ctx, "invoice email failed",
			"document_id", documentID,
			"error", err)
		return
	}
	s.logger.InfoContext(ctx, "invoice email sent", "document_id", documentID)
}

// extractDocumentID pulls the invoice identifier out of the provider's
// response. Providers differ on the field name; absence is not an error, it
// just means no email can be sent.
func extractDocumentID(raw json.RawMessage) string {
	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		return ""
	}

	for _, key := range []string{"document_id", "documentId", "id"} {
		switch id := resp[key].(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			return strconv.FormatFloat(id, 'f', -1, 64)
		}
	}
	return ""
}

// plainText builds a plain text response.
func plainText(status int, body string) Response {
	return Response{
		Body:        body,
		ContentType: "text/plain; charset=utf-8",
		StatusCode:  status,
	}
}
