package donorbox

import (
	"strconv"
	"strings"
	"time"

	"github.com/peteski22/donorbridge/internal/accounting"
	"github.com/peteski22/donorbridge/internal/config"
)

// ParseDonation extracts a normalized Donation from a webhook payload. It is a
// best-effort mapping and never fails; whether the result is sufficient to
// invoice (non-zero amount, currency) is decided by the caller.
//
// Donorbox payload shapes vary by event type and have changed over time, so
// each field is resolved through an ordered list of candidate locations rather
// than a fixed schema.
func ParseDonation(payload map[string]any) Donation {
	record := objectField(payload, "data", "donation")
	if record == nil {
		record = payload
	}

	donor := objectField(record, "donor", "donor_info")

	return Donation{
		Amount:     amountField(record),
		Campaign:   stringField(record, DefaultCampaign, "campaign_name", "campaign_title", "designation"),
		Currency:   strings.ToUpper(stringField(record, DefaultCurrency, "currency", "currency_code")),
		DonorEmail: donorEmail(record, donor),
		DonorName:  donorName(donor),
		ExternalID: externalID(payload, record),
		Raw:        record,
	}
}

// ToInvoice converts a Donation into the provider's invoice-creation request.
// Issue and due date are both the processing date.
func (d *Donation) ToInvoice(defaults config.Invoice, issuedOn time.Time) *accounting.Invoice {
	date := issuedOn.Format("2006-01-02")

	taxes := []accounting.Tax{}
	if defaults.TaxID != "" {
		taxes = append(taxes, accounting.Tax{ID: defaults.TaxID})
	}

	return &accounting.Invoice{
		CompanyID: defaults.CompanyID,
		Currency:  d.Currency,
		Customer: accounting.Customer{
			Email: d.DonorEmail,
			Name:  d.DonorName,
		},
		DueDate:   date,
		IssueDate: date,
		Items: []accounting.LineItem{{
			Description: "Donation - " + d.Campaign,
			Discount:    0,
			ProductID:   defaults.ProductID,
			Quantity:    1,
			Taxes:       taxes,
			UnitPrice:   d.Amount,
		}},
		Metadata: accounting.Metadata{
			Campaign:   d.Campaign,
			ExternalID: d.ExternalID,
		},
		Notes:    strings.TrimSpace("Donorbox donation " + d.ExternalID),
		SeriesID: defaults.SeriesID,
	}
}

// amountField resolves the donation amount. JSON numbers are used as-is,
// numeric strings are parsed, anything else yields 0 so the donation is
// rejected downstream instead of invoiced with a bogus amount.
func amountField(record map[string]any) float64 {
	for _, key := range []string{"amount", "donation_amount", "total"} {
		switch v := record[key].(type) {
		case float64:
			return v
		case string:
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}

// donorEmail resolves the donor's email from the donor sub-record, falling
// back to the donation record itself. Absence is meaningful and propagates as
// an empty string.
func donorEmail(record, donor map[string]any) string {
	if email := stringField(donor, "", "email"); email != "" {
		return email
	}
	return stringField(record, "", "email")
}

// donorName resolves the donor's display name: an explicit name field, else
// first and last name joined, else the default placeholder.
func donorName(donor map[string]any) string {
	if name := stringField(donor, "", "name"); name != "" {
		return name
	}

	parts := make([]string, 0, 2)
	for _, key := range []string{"first_name", "last_name"} {
		if part := strings.TrimSpace(stringField(donor, "", key)); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	return DefaultDonorName
}

// externalID resolves the donation identifier from the record or the payload
// root. Donorbox sends numeric ids, so numbers render as integer strings.
func externalID(payload, record map[string]any) string {
	candidates := []any{record["id"], payload["id"], payload["event_id"]}
	for _, v := range candidates {
		switch id := v.(type) {
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

// objectField returns the first key holding a JSON object, or nil.
func objectField(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if obj, ok := m[key].(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// stringField returns the first key holding a non-empty string, else fallback.
func stringField(m map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return fallback
}
