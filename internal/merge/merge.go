// Package merge reconciles the two extraction sources into one canonical
// record per document. The trust order is fixed per field: locally verified
// pattern matches are authoritative over the generative model everywhere
// except the line-item list.
package merge

import (
	"strings"

	"invoicepipe/constants"
	"invoicepipe/internal/entity"
	"invoicepipe/internal/parse"
)

// customer values carrying these words are mislabeled header fragments.
var customerGuardWords = []string{"invoice", "fattura"}

// Reconcile combines regex findings, the header-resolved supplier, and the
// model findings (nil when the service produced nothing) into the canonical
// record. modelQueried distinguishes "model was never asked" (disabled, or
// no text to send) from "model was asked and came up empty" in the method
// label.
func Reconcile(fileName string, rx entity.RegexFindings, headerSupplier string, mf *entity.ModelFindings, modelQueried bool) entity.CanonicalRecord {
	rec := entity.CanonicalRecord{FileName: fileName}

	switch {
	case mf != nil:
		rec.Method = constants.MethodRegexModel
	case modelQueried:
		rec.Method = constants.MethodModelUnavailable
	default:
		rec.Method = constants.MethodRegexOnly
	}

	// customer: regex first, model second, both behind the mislabel guard
	if ok := customerUsable(rx.Customer); ok {
		rec.Customer = rx.Customer
		rec.CustomerAddress = rx.CustomerAddress
	} else if mf != nil && customerUsable(mf.Customer) {
		rec.Customer = mf.Customer
	}

	// supplier: regex or header resolver only; the model never names the issuer
	rec.Supplier = rx.Supplier
	if rec.Supplier == "" {
		rec.Supplier = headerSupplier
	}
	// ambiguous heuristic collision: same party on both sides
	if rec.Supplier != "" && strings.EqualFold(rec.Supplier, rec.Customer) {
		rec.Supplier = ""
	}

	// issue date: regex value is already normalized; a model date gets
	// normalized on the way in
	rec.InvoiceDate = rx.Date
	if rec.InvoiceDate == "" && mf != nil && mf.InvoiceDate != "" {
		rec.InvoiceDate = parse.NormalizeDate(mf.InvoiceDate)
	}
	if rec.InvoiceDate != "" {
		rec.InvoiceDateDisplay = parse.PortalDate(rec.InvoiceDate)
	}

	// invoice number: regex only
	rec.InvoiceNumber = rx.InvoiceNumber

	// total: a regex total is final — re-normalizing it would double-scale.
	// Only a model total passes through the amount normalizer.
	rec.Total = rx.Total
	if rec.Total == "" && mf != nil && mf.Total != "" {
		if norm, ok := parse.NormalizeAmount(mf.Total); ok {
			rec.Total = norm
		}
	}

	// currency: model wins, euro flag backs it up, every spelling of euro
	// collapses to the ISO code
	if mf != nil && mf.Currency != "" {
		rec.Currency = mf.Currency
	} else if rx.EuroDetected {
		rec.Currency = constants.CurrencyEUR
	}
	if parse.IsEuro(rec.Currency) {
		rec.Currency = constants.CurrencyEUR
	}

	rec.TotalDisplay = parse.FormatDisplay(rec.Total, rec.Currency)

	// regex-only amounts, display-formatted with the same currency rules
	rec.TaxableBase = rx.TaxableBase
	rec.TaxableBaseDisplay = parse.FormatDisplay(rx.TaxableBase, rec.Currency)
	rec.VATRate = rx.VATRate
	rec.Fees = parse.FormatDisplay(rx.Fees, rec.Currency)
	rec.GeneralExpenses = parse.FormatDisplay(rx.GeneralExpenses, rec.Currency)

	// line items: the one field where the model is the better source
	if mf != nil && len(mf.LineItems) > 0 {
		rec.LineItems = mf.LineItems
	} else {
		rec.LineItems = rx.LineItems
	}

	return rec
}

func customerUsable(customer string) bool {
	if customer == "" {
		return false
	}
	lower := strings.ToLower(customer)
	for _, w := range customerGuardWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
