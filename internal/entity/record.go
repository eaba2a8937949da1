package entity

import "invoicepipe/constants"

// CanonicalRecord is the single reconciled output per processed document.
// Every field except FileName and Method is nullable: empty string (or empty
// slice) means the field was not found, never a fabricated default.
type CanonicalRecord struct {
	FileName string

	Supplier        string
	Customer        string
	CustomerAddress string

	InvoiceDate        string // normalized YYYY-MM-DD
	InvoiceDateDisplay string // portal form DD/MM/YYYY
	InvoiceNumber      string

	Total              string // normalized decimal "DDDD.DD"
	TotalDisplay       string // currency-aware localized form
	TaxableBase        string
	TaxableBaseDisplay string
	VATRate            string
	Fees               string // legacy professional-invoice amounts, display form
	GeneralExpenses    string
	Currency           string

	LineItems []string

	Method constants.ExtractionMethod
}
