package parse

import (
	"regexp"
	"strings"
	"unicode"
)

// normalized legal-entity suffixes, keyed by the suffix with dots and spaces
// stripped.
var legalSuffixForms = map[string]string{
	"srl":  "S.r.l.",
	"spa":  "S.p.A.",
	"snc":  "S.n.c.",
	"sas":  "S.a.s.",
	"ss":   "S.s.",
	"gmbh": "GmbH",
	"inc":  "Inc.",
	"ltd":  "Ltd.",
}

var (
	// company name immediately followed by a legal suffix, e.g.
	// "Rossi Impianti S.r.l." or "ACME SPA".
	headerCompanyRe = regexp.MustCompile(`(?i)([A-ZÀ-Ü][A-Za-zÀ-ü0-9&'.\- ]{2,60}?)[\s,]+(s\.?\s?r\.?\s?l\.?|s\.?\s?p\.?\s?a\.?|s\.?\s?n\.?\s?c\.?|s\.?\s?a\.?\s?s\.?|gmbh|inc\.?|ltd\.?)(?:\b|$)`)

	companyDescription = []string{
		"brand owned by", "company subject to", "un marchio di", "società soggetta",
	}
)

// ResolveHeaderSupplier recovers the issuing company's legal name from OCR
// text of a document's top region. The strategies run in order and the first
// hit wins:
//
//	(a) a name phrase immediately followed by a legal suffix, suffix
//	    normalized via the lookup table;
//	(b) the first line carrying a company-description phrase;
//	(c) the first fully-uppercase line longer than 5 characters;
//	(d) the first line that is neither blacklisted nor digit-initial.
//
// If a legal suffix appears elsewhere in the header but not in the chosen
// name, its normalized form is appended. Returns "" when nothing qualifies.
func ResolveHeaderSupplier(headerText string) string {
	lines := NormalizeLines(headerText)
	if len(lines) == 0 {
		return ""
	}

	name := ""
	if m := headerCompanyRe.FindStringSubmatch(headerText); m != nil {
		name = strings.TrimSpace(strings.TrimSpace(m[1]) + " " + NormalizeLegalSuffix(m[2]))
	}

	if name == "" {
		for _, line := range lines {
			if isSupplierBlacklisted(line) {
				continue
			}
			lower := strings.ToLower(line)
			for _, kw := range companyDescription {
				if strings.Contains(lower, kw) {
					name = line
					break
				}
			}
			if name != "" {
				break
			}
		}
	}

	if name == "" {
		for _, line := range lines {
			if len(line) > 5 && isAllUpper(line) && !isSupplierBlacklisted(line) {
				name = line
				break
			}
		}
	}

	if name == "" {
		for _, line := range lines {
			if !isSupplierBlacklisted(line) {
				name = line
				break
			}
		}
	}

	if name == "" {
		return ""
	}

	// a suffix spotted elsewhere in the header still belongs to the name
	if !legalSuffixRe.MatchString(name) {
		if m := legalSuffixRe.FindString(headerText); m != "" {
			if norm := NormalizeLegalSuffix(m); norm != "" {
				name = name + " " + norm
			}
		}
	}
	return name
}

// NormalizeLegalSuffix maps any spelling of a legal-entity suffix ("spa",
// "S.P.A.", "s.p.a") to its canonical form. Unknown suffixes return "".
func NormalizeLegalSuffix(raw string) string {
	key := strings.ToLower(raw)
	key = strings.NewReplacer(".", "", " ", "").Replace(key)
	return legalSuffixForms[key]
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
