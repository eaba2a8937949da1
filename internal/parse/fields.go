package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	labeledDateRe = regexp.MustCompile(`(?i)(?:Data|del|Li)\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{4})`)
	anyDateRe     = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`)
	dateShapeRe   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)

	tokenRe = regexp.MustCompile(`(?i)\b[A-Z0-9][A-Z0-9\-/]{0,15}\b`)

	customerLabelRe = regexp.MustCompile(`(?i)(?:Spett\.?\s?le|Spett/le|Destinatario|Cliente|Bill\s*To|Ship\s*To)\s*[:.]?`)
	fiscalBreakRe   = regexp.MustCompile(`(?i)(P\.?\s?IVA|Codice|Data|Fattura|Invoice)`)

	legalSuffixRe = regexp.MustCompile(`(?i)\b(s\.?\s?r\.?\s?l\.?|s\.?\s?p\.?\s?a\.?|s\.?\s?n\.?\s?c\.?|s\.?\s?a\.?\s?s\.?|s\.?\s?s\.?|gmbh|inc\.?|ltd\.?)(?:\b|$)`)

	vatRateRe = regexp.MustCompile(`(?i)\bIVA\s*:?\s*(\d{1,2}(?:[.,]\d{1,2})?)\s*%`)

	euroRe = regexp.MustCompile(`(?i)€|\bEURO?\b`)
)

// address-line markers; any line carrying one of these is a postal line.
var addressKeywords = []string{"via ", "viale ", "piazza ", "corso ", "strada ", "vicolo ", "contrada "}

// administrative tokens that can never be an invoice number.
var forbiddenNumberWords = map[string]struct{}{
	"pagina": {}, "page": {}, "data": {}, "date": {}, "fattura": {}, "invoice": {},
	"telefono": {}, "tel": {}, "fax": {}, "cap": {}, "iva": {}, "codice": {}, "fiscale": {},
}

// markers that disqualify a line from being the issuing company name.
var supplierBlacklist = []string{
	"spett", "p.iva", "p. iva", "partita iva", "codice fiscale", "c.f.",
	"tel", "fax", "www", "@", "e-mail", "email", "pec", "pagina", "page",
}

// IsAddressLine reports whether a line looks like a postal-address line.
func IsAddressLine(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range addressKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isDateShaped(s string) bool {
	return dateShapeRe.MatchString(s)
}

// ExtractDate returns the issue date, normalized to YYYY-MM-DD. A labeled
// date ("Data:", "del", "Li") wins; otherwise the first date-shaped token in
// document order is used.
func ExtractDate(text string) string {
	if m := labeledDateRe.FindStringSubmatch(text); m != nil {
		return NormalizeDate(m[1])
	}
	if m := anyDateRe.FindString(text); m != "" {
		return NormalizeDate(m)
	}
	return ""
}

// ExtractInvoiceNumber picks the most plausible document number among the
// alphanumeric tokens of all non-address lines. Preference order: a token
// containing '/' or '-', then one mixing letters and digits, then the first
// surviving token; ties break by earliest document position.
func ExtractInvoiceNumber(lines []string) string {
	var candidates []string
	for _, line := range lines {
		if IsAddressLine(line) {
			continue
		}
		candidates = append(candidates, tokenRe.FindAllString(line, -1)...)
	}

	var firstSlash, firstMixed, firstPlain string
	for _, cand := range candidates {
		if !containsDigit(cand) {
			continue
		}
		if isDateShaped(cand) {
			continue
		}
		if isPlausibleYear(cand) {
			continue
		}
		if _, bad := forbiddenNumberWords[strings.ToLower(strings.TrimSpace(cand))]; bad {
			continue
		}

		switch {
		case strings.ContainsAny(cand, "/-"):
			if firstSlash == "" {
				firstSlash = cand
			}
		case containsLetter(cand):
			if firstMixed == "" {
				firstMixed = cand
			}
		default:
			if firstPlain == "" {
				firstPlain = cand
			}
		}
	}

	switch {
	case firstSlash != "":
		return firstSlash
	case firstMixed != "":
		return firstMixed
	default:
		return firstPlain
	}
}

func containsDigit(s string) bool {
	return strings.ContainsAny(s, "0123456789")
}

func containsLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// bare 4-digit tokens above 2000 read as years, not document numbers.
func isPlausibleYear(s string) bool {
	if len(s) != 4 || !digitsOnlyRe.MatchString(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n > 2000
}

// CustomerBlock is the recipient block split into name and postal address.
type CustomerBlock struct {
	Name    string
	Address string
}

// maximum lines collected after the label line.
const customerBlockSpan = 4

// ExtractCustomerBlock locates the recipient label ("Spett.le", "Cliente",
// "Destinatario", "Bill To", ...) and collects the block that follows,
// stopping early at fiscal/date/invoice keywords. The first line that is
// neither an internal customer code (mostly digits) nor an address line
// becomes the name; everything else joins into the address.
func ExtractCustomerBlock(lines []string) CustomerBlock {
	var block []string
	for i, line := range lines {
		if !customerLabelRe.MatchString(line) {
			continue
		}
		cleaned := strings.TrimSpace(customerLabelRe.ReplaceAllString(line, ""))
		if len(cleaned) > 2 {
			block = append(block, cleaned)
		}
		for j := 1; j <= customerBlockSpan && i+j < len(lines); j++ {
			next := lines[i+j]
			if fiscalBreakRe.MatchString(next) {
				break
			}
			block = append(block, next)
		}
		break
	}
	if len(block) == 0 {
		return CustomerBlock{}
	}

	var name string
	var addr []string
	for _, line := range block {
		if name == "" {
			if isCustomerCode(line) {
				continue
			}
			if IsAddressLine(line) {
				addr = append(addr, line)
				continue
			}
			name = line
			continue
		}
		addr = append(addr, line)
	}
	return CustomerBlock{Name: name, Address: strings.Join(addr, " ")}
}

// isCustomerCode flags lines that are mostly digits (>=60% of characters,
// at least 5 digits) — internal account codes, not names.
func isCustomerCode(line string) bool {
	digits := 0
	for _, r := range line {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 5 && digits*100 >= len(line)*60
}

// how deep into the document the issuer name is searched for.
const supplierScanLines = 30

// ExtractSupplier scans the document head for the issuing company: the first
// line that is not an address/contact/label line, does not start with a
// digit, and carries a legal-entity suffix (S.r.l., S.p.A., GmbH, ...).
// Returns "" when no line qualifies; the caller may then fall back to the
// header-OCR resolver.
func ExtractSupplier(lines []string) string {
	limit := len(lines)
	if limit > supplierScanLines {
		limit = supplierScanLines
	}
	for _, line := range lines[:limit] {
		if isSupplierBlacklisted(line) {
			continue
		}
		if legalSuffixRe.MatchString(line) {
			return line
		}
	}
	return ""
}

func isSupplierBlacklisted(line string) bool {
	if line == "" {
		return true
	}
	if line[0] >= '0' && line[0] <= '9' {
		return true
	}
	if IsAddressLine(line) {
		return true
	}
	lower := strings.ToLower(line)
	for _, kw := range supplierBlacklist {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractVATRate returns the last "IVA NN%" percentage label in the text.
func ExtractVATRate(text string) string {
	matches := vatRateRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1] + "%"
}

// DetectEuro reports whether any euro marker appears in the text.
func DetectEuro(text string) bool {
	return euroRe.MatchString(text)
}

// words that mark a summary row rather than a line item.
var lineItemExclude = []string{
	"totale", "imponibile", "iva", "spese", "spedizione", "trasporto",
	"fattura", "documento", "nota di credito", "total", "subtotal", "vat", "shipping",
}

// ExtractLineItems is the regex fallback for the item list: every line that
// carries a currency-shaped amount and none of the summary keywords.
func ExtractLineItems(lines []string) []string {
	var items []string
	for _, line := range lines {
		if len(AmountsInLine(line)) == 0 {
			continue
		}
		lower := strings.ToLower(line)
		excluded := false
		for _, kw := range lineItemExclude {
			if strings.Contains(lower, kw) {
				excluded = true
				break
			}
		}
		if !excluded {
			items = append(items, line)
		}
	}
	return items
}
