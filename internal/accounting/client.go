package accounting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is an accounting provider API client.
type Client struct {
	// baseURL is the base URL for API requests.
	baseURL string

	// config holds the client configuration.
	config Config

	// httpClient is the HTTP client for making requests.
	httpClient *http.Client

	// tokenManager handles OAuth token refresh.
	tokenManager *tokenManager
}

// CreateInvoice creates a new invoice and returns the provider's response body
// verbatim. Callers extract the document identifier from it.
func (c *Client) CreateInvoice(ctx context.Context, invoice *Invoice) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/v1/invoices", c.baseURL)

	body, err := c.doRequest(ctx, http.MethodPost, reqURL, invoice)
	if err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	return body, nil
}

// SendInvoiceEmail sends an existing invoice to the given email address.
func (c *Client) SendInvoiceEmail(ctx context.Context, documentID, email string) error {
	reqURL := fmt.Sprintf("%s/v1/invoices/email", c.baseURL)

	req := emailRequest{
		CompanyID:  c.config.CompanyID,
		DocumentID: documentID,
		Email:      email,
	}

	if _, err := c.doRequest(ctx, http.MethodPost, reqURL, req); err != nil {
		return fmt.Errorf("sending invoice email: %w", err)
	}

	return nil
}

// doRequest executes an authenticated JSON request and returns the raw
// response body. Non-2xx responses are returned as an *APIError.
func (c *Client) doRequest(ctx context.Context, method string, reqURL string, body any) ([]byte, error) {
	accessToken, err := c.tokenManager.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting access token: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}

// Config holds the required configuration for creating a Client.
type Config struct {
	// BaseURL is the provider's API base URL.
	BaseURL string

	// ClientID is the OAuth client identifier.
	ClientID string

	// ClientSecret is the OAuth client secret.
	ClientSecret string

	// CompanyID identifies the issuing company on the provider.
	CompanyID string

	// TokenStore provides access to the OAuth refresh token.
	TokenStore TokenStore
}

// validate checks that all required Config fields are set.
func (c *Config) validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	}
	if c.ClientID == "" {
		errs = append(errs, errors.New("client ID is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("client secret is required"))
	}
	if c.CompanyID == "" {
		errs = append(errs, errors.New("company ID is required"))
	}
	if c.TokenStore == nil {
		errs = append(errs, errors.New("token store is required"))
	}
	return errors.Join(errs...)
}

// NewClient creates a new accounting provider API client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	tokenURL := o.tokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("%s/v1/oauth/token", baseURL)
	}

	tm := newTokenManager(cfg.ClientID, cfg.ClientSecret, tokenURL, cfg.TokenStore, httpClient)

	return &Client{
		baseURL:      baseURL,
		config:       cfg,
		httpClient:   httpClient,
		tokenManager: tm,
	}, nil
}
