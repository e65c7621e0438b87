// Package donorbox parses and verifies Donorbox donation webhooks.
package donorbox

const (
	// DefaultCampaign is used when the payload carries no campaign information.
	DefaultCampaign = "Donation"

	// DefaultCurrency is used when the payload carries no currency code.
	DefaultCurrency = "EUR"

	// DefaultDonorName is used when the payload carries no donor name.
	DefaultDonorName = "Donorbox Donor"
)

// Donation is a normalized donation extracted from a webhook payload.
type Donation struct {
	// Amount is the donation amount. Zero means the payload carried no
	// usable amount and the donation cannot be invoiced.
	Amount float64

	// Campaign is the campaign or designation the donation was made to.
	Campaign string

	// Currency is the uppercased three-letter currency code.
	Currency string

	// DonorEmail is the donor's email address, empty if not provided.
	DonorEmail string

	// DonorName is the donor's display name.
	DonorName string

	// ExternalID is the Donorbox donation identifier, empty if not provided.
	ExternalID string

	// Raw is the donation record the fields were extracted from, kept for
	// traceability in logs.
	Raw map[string]any
}
