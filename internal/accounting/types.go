// Package accounting provides a client for the accounting provider's API.
package accounting

// Customer identifies the invoice recipient.
type Customer struct {
	// Email is the customer's email address.
	Email string `json:"email,omitempty"`

	// Name is the customer's display name.
	Name string `json:"name"`
}

// Invoice is an invoice-creation request.
type Invoice struct {
	// CompanyID identifies the issuing company.
	CompanyID string `json:"company_id"`

	// Currency is the three-letter currency code.
	Currency string `json:"currency"`

	// Customer is the invoice recipient.
	Customer Customer `json:"customer"`

	// DueDate is the expiration date in YYYY-MM-DD format.
	DueDate string `json:"due_date"`

	// IssueDate is the issue date in YYYY-MM-DD format.
	IssueDate string `json:"issue_date"`

	// Items are the invoice line items.
	Items []LineItem `json:"items"`

	// Metadata carries reconciliation fields passed through unchanged.
	Metadata Metadata `json:"metadata"`

	// Notes is a free-text note on the invoice.
	Notes string `json:"notes,omitempty"`

	// SeriesID identifies the document series the invoice is issued in.
	SeriesID string `json:"series_id"`
}

// LineItem is a single invoice line.
type LineItem struct {
	// Description is the line description.
	Description string `json:"description"`

	// Discount is the discount percentage applied to the line.
	Discount float64 `json:"discount"`

	// ProductID identifies the product or article the line refers to.
	ProductID string `json:"product_id"`

	// Quantity is the number of units.
	Quantity int `json:"quantity"`

	// Taxes are the taxes applied to the line, empty for none.
	Taxes []Tax `json:"taxes"`

	// UnitPrice is the price per unit.
	UnitPrice float64 `json:"unit_price"`
}

// Metadata carries external identifiers for downstream reconciliation.
type Metadata struct {
	// Campaign is the originating campaign label.
	Campaign string `json:"campaign,omitempty"`

	// ExternalID is the identifier of the source record.
	ExternalID string `json:"external_id,omitempty"`
}

// Tax identifies a tax applied to a line item.
type Tax struct {
	// ID is the provider's tax identifier.
	ID string `json:"id"`
}

// emailRequest is the request body for sending an invoice by email.
type emailRequest struct {
	// CompanyID identifies the issuing company.
	CompanyID string `json:"company_id"`

	// DocumentID is the invoice document identifier.
	DocumentID string `json:"document_id"`

	// Email is the recipient address.
	Email string `json:"email"`
}

// tokenResponse is the token endpoint's response body.
type tokenResponse struct {
	// AccessToken is the bearer token for API requests.
	AccessToken string `json:"access_token"`

	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`

	// RefreshToken is a rotated refresh token, if the provider rotates them.
	RefreshToken string `json:"refresh_token"`

	// TokenType is the token type, expected to be "Bearer".
	TokenType string `json:"token_type"`
}
