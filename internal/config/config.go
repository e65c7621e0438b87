// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// EnvAccountingAPIBaseURL is the base URL for the accounting provider's API.
	EnvAccountingAPIBaseURL = "ACCOUNTING_API_BASE_URL"

	// EnvAccountingClientID is the OAuth client ID for the accounting provider.
	EnvAccountingClientID = "ACCOUNTING_CLIENT_ID"

	// EnvAccountingClientSecret is the OAuth client secret for the accounting provider.
	EnvAccountingClientSecret = "ACCOUNTING_CLIENT_SECRET"

	// EnvAccountingRefreshToken is the OAuth refresh token, supplied directly.
	EnvAccountingRefreshToken = "ACCOUNTING_REFRESH_TOKEN"

	// EnvAccountingRefreshTokenSecretARN is the Secrets Manager ARN for the refresh token.
	EnvAccountingRefreshTokenSecretARN = "ACCOUNTING_REFRESH_TOKEN_SECRET_ARN"

	// EnvAccountingTokenURL is the OAuth token endpoint URL.
	EnvAccountingTokenURL = "ACCOUNTING_TOKEN_URL"

	// EnvDonorboxWebhookSecret is the shared secret for webhook signature
	// verification. Signature checking is skipped when unset.
	EnvDonorboxWebhookSecret = "DONORBOX_WEBHOOK_SECRET"

	// EnvInvoiceCompanyID is the issuing company identifier on the provider.
	EnvInvoiceCompanyID = "INVOICE_COMPANY_ID"

	// EnvInvoiceFallbackEmail is the recipient used when a donation has no donor email.
	EnvInvoiceFallbackEmail = "INVOICE_FALLBACK_EMAIL"

	// EnvInvoiceProductID is the product identifier for the invoice line.
	EnvInvoiceProductID = "INVOICE_PRODUCT_ID"

	// EnvInvoiceSeriesID is the document series invoices are issued in.
	EnvInvoiceSeriesID = "INVOICE_SERIES_ID"

	// EnvInvoiceTaxID is the tax identifier applied to the invoice line (optional).
	EnvInvoiceTaxID = "INVOICE_TAX_ID"

	// EnvSSMSeriesParameterName is the SSM parameter overriding the document series.
	EnvSSMSeriesParameterName = "SSM_SERIES_PARAMETER_NAME"

	// EnvServerPort is the listen port for the local server mode.
	EnvServerPort = "SERVER_PORT"
)

// Accounting holds accounting provider API configuration.
type Accounting struct {
	// APIBaseURL is the base URL for API requests.
	APIBaseURL string

	// ClientID is the OAuth client identifier.
	ClientID string

	// ClientSecret is the OAuth client secret.
	ClientSecret string

	// RefreshToken is the OAuth refresh token when supplied directly.
	RefreshToken string

	// RefreshTokenSecretARN is the Secrets Manager ARN storing the refresh token.
	RefreshTokenSecretARN string

	// TokenURL is the OAuth token endpoint, derived from APIBaseURL when empty.
	TokenURL string
}

// Donorbox holds inbound webhook configuration.
type Donorbox struct {
	// WebhookSecret is the shared secret for signature verification.
	// Verification is skipped entirely when empty.
	WebhookSecret string
}

// Invoice holds default values applied to every invoice.
type Invoice struct {
	// CompanyID identifies the issuing company on the provider.
	CompanyID string

	// FallbackEmail receives the invoice when a donation has no donor email (optional).
	FallbackEmail string

	// ProductID is the product identifier for the single invoice line.
	ProductID string

	// SeriesID is the document series invoices are issued in.
	SeriesID string

	// TaxID is the tax applied to the invoice line (optional).
	TaxID string
}

// SSM holds AWS Systems Manager Parameter Store configuration.
type SSM struct {
	// SeriesParameterName is the SSM parameter overriding the invoice series
	// (optional). Series rotate periodically, so operators can update the
	// parameter without redeploying.
	SeriesParameterName string
}

// Server holds configuration for the local HTTP server mode.
type Server struct {
	// Port is the TCP port to listen on.
	Port string
}

// Settings holds all configuration for the application.
type Settings struct {
	// Accounting contains accounting provider API settings.
	Accounting Accounting

	// Donorbox contains inbound webhook settings.
	Donorbox Donorbox

	// Invoice contains invoice default values.
	Invoice Invoice

	// SSM contains AWS Systems Manager Parameter Store settings.
	SSM SSM

	// Server contains local HTTP server settings.
	Server Server
}

func (s *Settings) validate() error {
	var errs []error

	if s.Accounting.APIBaseURL == "" {
		errs = append(errs, requiredError(EnvAccountingAPIBaseURL))
	}
	if s.Accounting.ClientID == "" {
		errs = append(errs, requiredError(EnvAccountingClientID))
	}
	if s.Accounting.ClientSecret == "" {
		errs = append(errs, requiredError(EnvAccountingClientSecret))
	}
	if s.Accounting.RefreshToken == "" && s.Accounting.RefreshTokenSecretARN == "" {
		errs = append(errs, fmt.Errorf("one of %s or %s is required",
			EnvAccountingRefreshToken, EnvAccountingRefreshTokenSecretARN))
	}
	if s.Invoice.CompanyID == "" {
		errs = append(errs, requiredError(EnvInvoiceCompanyID))
	}
	if s.Invoice.ProductID == "" {
		errs = append(errs, requiredError(EnvInvoiceProductID))
	}
	if s.Invoice.SeriesID == "" {
		errs = append(errs, requiredError(EnvInvoiceSeriesID))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables.
func Load() (*Settings, error) {
	cfg := &Settings{
		Accounting: Accounting{
			APIBaseURL:            strings.TrimSpace(os.Getenv(EnvAccountingAPIBaseURL)),
			ClientID:              strings.TrimSpace(os.Getenv(EnvAccountingClientID)),
			ClientSecret:          strings.TrimSpace(os.Getenv(EnvAccountingClientSecret)),
			RefreshToken:          strings.TrimSpace(os.Getenv(EnvAccountingRefreshToken)),
			RefreshTokenSecretARN: strings.TrimSpace(os.Getenv(EnvAccountingRefreshTokenSecretARN)),
			TokenURL:              strings.TrimSpace(os.Getenv(EnvAccountingTokenURL)),
		},
		Donorbox: Donorbox{
			WebhookSecret: strings.TrimSpace(os.Getenv(EnvDonorboxWebhookSecret)),
		},
		Invoice: Invoice{
			CompanyID:     strings.TrimSpace(os.Getenv(EnvInvoiceCompanyID)),
			FallbackEmail: strings.TrimSpace(os.Getenv(EnvInvoiceFallbackEmail)),
			ProductID:     strings.TrimSpace(os.Getenv(EnvInvoiceProductID)),
			SeriesID:      strings.TrimSpace(os.Getenv(EnvInvoiceSeriesID)),
			TaxID:         strings.TrimSpace(os.Getenv(EnvInvoiceTaxID)),
		},
		SSM: SSM{
			SeriesParameterName: strings.TrimSpace(os.Getenv(EnvSSMSeriesParameterName)),
		},
		Server: Server{
			Port: envOrDefault(EnvServerPort, "8080"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func envOrDefault(key string, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func requiredError(envVar string) error {
	return fmt.Errorf("%s is required", envVar)
}
