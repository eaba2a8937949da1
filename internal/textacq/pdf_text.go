package textacq

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// nativePages extracts the embedded text layer page by page. A page that
// fails to decode contributes an empty string and a warning; the document
// keeps its page count either way.
func nativePages(data []byte) (pages []string, warnings []string) {
	defer func() {
		if r := recover(); r != nil {
			warnings = append(warnings, fmt.Sprintf("pdf text layer panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, []string{fmt.Sprintf("open pdf: %v", err)}
	}

	n := reader.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			warnings = append(warnings, fmt.Sprintf("page %d: missing page object", i))
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		pages = append(pages, text)
	}
	return pages, warnings
}
