package parse

import "time"

// dateFormats to try when normalizing extracted dates, in order.
// First format that parses wins.
var dateFormats = []string{
	"02/01/2006", // DD/MM/YYYY
	"2/1/2006",
	"02-01-2006", // DD-MM-YYYY
	"2-1-2006",
	"2006-01-02", // already ISO
	"02/01/06", // DD/MM/YY
	"02-01-06",
}

// NormalizeDate converts a raw date string to YYYY-MM-DD. Unparsable input is
// returned unchanged; the caller decides whether that still counts as a date.
func NormalizeDate(raw string) string {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// PortalDate converts a normalized YYYY-MM-DD date into the DD/MM/YYYY form
// used by the invoice portal. Best effort: anything else passes through.
func PortalDate(iso string) string {
	if t, err := time.Parse("2006-01-02", iso); err == nil {
		return t.Format("02/01/2006")
	}
	return iso
}
