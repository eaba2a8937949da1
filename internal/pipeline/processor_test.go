package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicepipe/constants"
	"invoicepipe/internal/common"
	"invoicepipe/internal/entity"
	"invoicepipe/internal/textacq"
)

// stubOCR feeds fixed text through the acquisition fallback, which is how a
// test injects document text without a real PDF.
type stubOCR struct{ text string }

func (s stubOCR) Text(ctx context.Context, pdf []byte) (string, error) { return s.text, nil }

type stubHeader struct {
	text string
	err  error
}

func (s stubHeader) HeaderText(ctx context.Context, pdf []byte) (string, error) {
	return s.text, s.err
}

type stubExtractor struct {
	findings *entity.ModelFindings
	err      error
	calls    int
}

func (s *stubExtractor) ExtractFields(ctx context.Context, text string) (*entity.ModelFindings, []byte, error) {
	s.calls++
	return s.findings, nil, s.err
}

const invoiceText = "ACME S.r.l.\n" +
	"Spett.le\n" +
	"Mario Verdi\n" +
	"Fattura n. 123/A\n" +
	"Data: 15/03/2024\n" +
	"Totale fattura € 1.234,56\n"

func newTestProcessor(cfg common.PipelineConfig, ocrText string, header HeaderResolver, extractor *stubExtractor) *Processor {
	acquirer := textacq.NewAcquirer(40, stubOCR{text: ocrText}, nil)
	if extractor == nil {
		return NewProcessor(cfg, acquirer, header, nil, nil)
	}
	return NewProcessor(cfg, acquirer, header, extractor, nil)
}

func TestProcessDocumentHeuristicsOnly(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: false, UseOCR: true, MinTextLen: 40}
	p := newTestProcessor(cfg, invoiceText, nil, nil)

	res := p.ProcessDocument(context.Background(), "fattura.pdf", []byte("garbage"))
	rec := res.Record

	assert.Equal(t, constants.MethodRegexOnly, rec.Method)
	assert.Equal(t, "fattura.pdf", rec.FileName)
	assert.Equal(t, "ACME S.r.l.", rec.Supplier)
	assert.Equal(t, "Mario Verdi", rec.Customer)
	assert.Equal(t, "2024-03-15", rec.InvoiceDate)
	assert.Equal(t, "123/A", rec.InvoiceNumber)
	assert.Equal(t, "1234.56", rec.Total)
	assert.Equal(t, "EUR", rec.Currency)
	assert.Equal(t, "1.234,56", rec.TotalDisplay)
}

func TestProcessDocumentIsIdempotent(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: false, UseOCR: true, MinTextLen: 40}
	p := newTestProcessor(cfg, invoiceText, nil, nil)

	first := p.ProcessDocument(context.Background(), "fattura.pdf", []byte("garbage"))
	second := p.ProcessDocument(context.Background(), "fattura.pdf", []byte("garbage"))
	assert.Equal(t, first.Record, second.Record)
}

func TestProcessDocumentModelEnrichment(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: true, UseOCR: true, MinTextLen: 40}
	ext := &stubExtractor{findings: &entity.ModelFindings{
		Customer:  "Mario Verdi Senior",
		LineItems: []string{"Consulenza"},
	}}
	p := newTestProcessor(cfg, "Fattura n. 123/A\nTotale fattura € 1.234,56\n", nil, ext)

	res := p.ProcessDocument(context.Background(), "fattura.pdf", []byte("garbage"))
	rec := res.Record

	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, constants.MethodRegexModel, rec.Method)
	assert.Equal(t, "Mario Verdi Senior", rec.Customer)
	assert.Equal(t, []string{"Consulenza"}, rec.LineItems)
	// the pattern-matched total still wins
	assert.Equal(t, "1234.56", rec.Total)
}

func TestProcessDocumentModelFailureIsAWarning(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: true, UseOCR: true, MinTextLen: 40}
	ext := &stubExtractor{err: errors.New("endpoint unreachable")}
	p := newTestProcessor(cfg, invoiceText, nil, ext)

	res := p.ProcessDocument(context.Background(), "fattura.pdf", []byte("garbage"))
	assert.Equal(t, constants.MethodModelUnavailable, res.Record.Method)
	assert.Equal(t, "1234.56", res.Record.Total)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "model enrichment") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProcessDocumentModelSkippedWithoutText(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: true, UseOCR: true, MinTextLen: 40}
	ext := &stubExtractor{findings: &entity.ModelFindings{Customer: "should not appear"}}
	// acquisition comes up completely empty: garbage bytes, blank OCR
	p := newTestProcessor(cfg, "", nil, ext)

	res := p.ProcessDocument(context.Background(), "vuoto.pdf", []byte("garbage"))
	assert.Equal(t, 0, ext.calls)
	assert.Equal(t, constants.MethodRegexOnly, res.Record.Method)
	assert.Equal(t, "", res.Record.Customer)
}

func TestProcessDocumentHeaderFallback(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: false, UseOCR: true, MinTextLen: 40}
	// no legal suffix in the body, so the header resolver is consulted
	p := newTestProcessor(cfg, "Fattura n. 55\nTotale fattura € 100,00\n",
		stubHeader{text: "Rossi Impianti S.r.l.\nVia Garibaldi 10"}, nil)

	res := p.ProcessDocument(context.Background(), "f.pdf", []byte("garbage"))
	assert.Equal(t, "Rossi Impianti S.r.l.", res.Record.Supplier)
}

func TestProcessDocumentHeaderSkippedWhenBodyHasSupplier(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: false, UseOCR: true, MinTextLen: 40}
	p := newTestProcessor(cfg, invoiceText,
		stubHeader{err: errors.New("should not be called")}, nil)

	res := p.ProcessDocument(context.Background(), "f.pdf", []byte("garbage"))
	assert.Equal(t, "ACME S.r.l.", res.Record.Supplier)
	for _, w := range res.Warnings {
		assert.NotContains(t, w, "should not be called")
	}
}

func TestProcessBatch(t *testing.T) {
	cfg := common.PipelineConfig{UseAI: false, UseOCR: true, MinTextLen: 40}
	p := newTestProcessor(cfg, invoiceText, nil, nil)

	docs := []Document{
		{Name: "a.pdf", Data: []byte("garbage")},
		{Name: "b.pdf", Data: []byte("garbage")},
	}
	results := p.ProcessBatch(context.Background(), docs)
	require.Len(t, results, 2)
	assert.Equal(t, "a.pdf", results[0].Record.FileName)
	assert.Equal(t, "b.pdf", results[1].Record.FileName)

	records := Records(results)
	require.Len(t, records, 2)
	assert.Equal(t, "1234.56", records[0].Total)
}
