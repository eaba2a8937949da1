// Package textacq turns a PDF byte stream into page-level text. It prefers
// the embedded text layer and degrades to the OCR backend when that layer is
// missing or too sparse. Acquisition never fails hard: problems surface as
// warnings and the pipeline continues with whatever text was recovered.
package textacq

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"invoicepipe/internal/entity"
)

// OCRBackend is the opaque rasterize-and-recognize collaborator.
type OCRBackend interface {
	Text(ctx context.Context, pdf []byte) (string, error)
}

// DefaultMinTextLen is the threshold below which the native layer counts as
// empty and OCR is attempted.
const DefaultMinTextLen = 40

type Acquirer struct {
	MinTextLen int
	OCR        OCRBackend // nil disables the fallback
	Logger     *slog.Logger

	// native is swappable for tests; defaults to the pdf-library extractor.
	native func(pdf []byte) ([]string, []string)
}

func NewAcquirer(minTextLen int, ocr OCRBackend, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if minTextLen <= 0 {
		minTextLen = DefaultMinTextLen
	}
	return &Acquirer{MinTextLen: minTextLen, OCR: ocr, Logger: logger, native: nativePages}
}

// Acquire returns the document's text plus any non-fatal warnings gathered
// along the way. The result is empty (never an error) when both the native
// layer and OCR come up short.
func (a *Acquirer) Acquire(ctx context.Context, pdf []byte) (entity.ExtractedText, []string) {
	pages, warnings := a.native(pdf)
	full := strings.TrimSpace(strings.Join(pages, "\n"))

	if len(full) >= a.MinTextLen {
		return entity.ExtractedText{Pages: pages, Full: full, Method: "native"}, warnings
	}

	if a.OCR == nil {
		if full == "" {
			warnings = append(warnings, "no text layer and OCR disabled")
			return entity.ExtractedText{}, warnings
		}
		return entity.ExtractedText{Pages: pages, Full: full, Method: "native"}, warnings
	}

	a.Logger.Info("textacq.ocr_fallback", "native_len", len(full), "min_len", a.MinTextLen)
	ocrText, err := a.OCR.Text(ctx, pdf)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("ocr fallback failed: %v", err))
		if full == "" {
			return entity.ExtractedText{}, warnings
		}
		return entity.ExtractedText{Pages: pages, Full: full, Method: "native"}, warnings
	}

	ocrText = strings.TrimSpace(ocrText)
	if ocrText == "" {
		warnings = append(warnings, "ocr produced no text")
		return entity.ExtractedText{Pages: pages, Full: full, Method: "native"}, warnings
	}

	// OCR page breaks come through as form feeds
	ocrPages := strings.Split(ocrText, "\f")
	for i := range ocrPages {
		ocrPages[i] = strings.TrimSpace(ocrPages[i])
	}
	return entity.ExtractedText{Pages: ocrPages, Full: ocrText, Method: "ocr"}, warnings
}
