package constants

// ExtractionMethod records which sources contributed to a canonical record.
type ExtractionMethod string

// Stable values (these exact strings appear in exports).
const (
	MethodRegexOnly        ExtractionMethod = "regex only"                 // model disabled or empty output
	MethodRegexModel       ExtractionMethod = "regex+model"                // both sources reconciled
	MethodModelUnavailable ExtractionMethod = "model fallback unavailable" // model requested but unreachable
)
