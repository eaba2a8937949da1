package entity

// RegexFindings holds the field candidates produced by pattern matching alone.
// It never contains model-origin data. Empty string means "not found".
// Lifetime: one document.
type RegexFindings struct {
	Date            string // normalized YYYY-MM-DD
	InvoiceNumber   string
	Supplier        string
	Customer        string
	CustomerAddress string
	Total           string // normalized decimal "DDDD.DD"
	TaxableBase     string // normalized decimal
	VATRate         string // percentage label, e.g. "22%"
	Fees            string // "Compensi dovuti"/"Onorari" amount (legacy layout)
	GeneralExpenses string // "Spese generali" amount (legacy layout)
	EuroDetected    bool   // a euro marker appeared anywhere in the text
	LineItems       []string
}

// ModelFindings holds the fields recovered from the generative model's JSON.
// Amount values are kept exactly as the model wrote them; normalization
// happens at merge time. A nil *ModelFindings means the service produced
// nothing usable. Lifetime: one document.
type ModelFindings struct {
	Supplier      string
	Customer      string
	InvoiceDate   string
	InvoiceNumber string
	Total         string // raw, not yet normalized
	Currency      string
	LineItems     []string
}
