package constants

import "strings"

// AllowedExtensions holds the file extensions accepted for invoice ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// Currency markers recognized as euro, case-insensitive.
var EuroMarkers = []string{"EUR", "EURO", "€"}

// CurrencyEUR is the canonical ISO code every euro variant collapses to.
const CurrencyEUR = "EUR"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
