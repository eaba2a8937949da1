package parse

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"invoicepipe/constants"
)

// currency-shaped token: 1-3 digits, optional 3-digit groups, then exactly
// two decimals. Matches both "1.234,56" and "1,234.56".
var amountRe = regexp.MustCompile(`\b\d{1,3}(?:[.,]\d{3})*[.,]\d{2}\b`)

var digitsOnlyRe = regexp.MustCompile(`^\d+$`)

// NormalizeAmount canonicalizes a locale-ambiguous numeric string into the
// internal "DDDD.DD" form. The disambiguation heuristic is deliberate and
// must stay as is: the rightmost separator is the decimal point, everything
// before it is grouping; a bare digit run longer than two digits carries
// implicit trailing cents ("46994" -> "469.94").
func NormalizeAmount(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", false
	}

	if i := strings.LastIndexAny(s, ".,"); i >= 0 {
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:i])
		frac := s[i+1:]
		f, err := strconv.ParseFloat(intPart+"."+frac, 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', 2, 64), true
	}

	if !digitsOnlyRe.MatchString(s) {
		return "", false
	}
	if len(s) > 2 {
		f, err := strconv.ParseFloat(s[:len(s)-2]+"."+s[len(s)-2:], 64)
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', 2, 64), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(f, 'f', 2, 64), true
}

var itPrinter = message.NewPrinter(language.Italian)

// FormatDisplay renders a normalized amount for display. Euro amounts use the
// Italian convention (dot grouping, comma decimals); any other currency keeps
// the internal dot form unchanged.
func FormatDisplay(amount, currency string) string {
	if amount == "" {
		return ""
	}
	if !IsEuro(currency) {
		return amount
	}
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return amount
	}
	return itPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}

// IsEuro reports whether a currency label is any of the euro spellings.
func IsEuro(currency string) bool {
	upper := strings.ToUpper(currency)
	for _, marker := range constants.EuroMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// AmountsInLine returns every currency-shaped value on a line, left to right,
// already normalized. Values at or below 0.01 are discarded as noise.
func AmountsInLine(line string) []string {
	var out []string
	for _, m := range amountRe.FindAllString(line, -1) {
		norm, ok := NormalizeAmount(m)
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(norm, 64); err != nil || v <= 0.01 {
			continue
		}
		out = append(out, norm)
	}
	return out
}

// Strategy selects one value among the amounts found on a matched line.
type Strategy int

const (
	StrategyFirst Strategy = iota // leftmost
	StrategyMax                   // largest numeric value
	StrategyLast                  // rightmost
)

// FindAmount scans lines for the first one matching any of the labeled
// patterns and picks a value from it per the strategy. When the matched line
// carries no amount the immediately following line is checked, which covers
// layouts that put the label and the figure on separate rows.
func FindAmount(lines []string, patterns []*regexp.Regexp, strategy Strategy) (string, bool) {
	for idx, line := range lines {
		for _, pat := range patterns {
			if !pat.MatchString(line) {
				continue
			}
			vals := AmountsInLine(line)
			if len(vals) == 0 && idx+1 < len(lines) {
				vals = AmountsInLine(lines[idx+1])
			}
			if len(vals) == 0 {
				continue
			}
			switch strategy {
			case StrategyMax:
				best := vals[0]
				bestV, _ := strconv.ParseFloat(best, 64)
				for _, v := range vals[1:] {
					if fv, _ := strconv.ParseFloat(v, 64); fv > bestV {
						best, bestV = v, fv
					}
				}
				return best, true
			case StrategyLast:
				return vals[len(vals)-1], true
			default:
				return vals[0], true
			}
		}
	}
	return "", false
}

// LastAmount returns the final currency-shaped value in the whole document,
// the fallback when no labeled total line exists.
func LastAmount(text string) (string, bool) {
	matches := amountRe.FindAllString(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		norm, ok := NormalizeAmount(matches[i])
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(norm, 64); err == nil && v > 0.01 {
			return norm, true
		}
	}
	return "", false
}
