package entity

// ExtractedText is the page-level text acquired for one document.
// Immutable once produced; owned by the caller for the duration of one
// document's processing.
type ExtractedText struct {
	Pages  []string // one entry per page, empty string for unreadable pages
	Full   string   // pages joined with newlines
	Method string   // "native" | "ocr" | "" when nothing was recovered
}

// Empty reports whether no usable text was acquired.
func (t ExtractedText) Empty() bool {
	return len(t.Full) == 0
}
