// Package pipeline wires acquisition, heuristic extraction, the model
// adapter, and the merge policy into the per-document flow. Documents are
// processed one at a time; no state is shared between them and no failure
// in one document stops the batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"invoicepipe/internal/common"
	"invoicepipe/internal/entity"
	"invoicepipe/internal/llm"
	"invoicepipe/internal/merge"
	"invoicepipe/internal/parse"
	"invoicepipe/internal/textacq"
)

// HeaderResolver OCRs the top region of a document's first page.
type HeaderResolver interface {
	HeaderText(ctx context.Context, pdf []byte) (string, error)
}

// Document is one uploaded file: name plus raw bytes.
type Document struct {
	Name string
	Data []byte
}

// Result is the per-document outcome: the reconciled record plus every
// non-fatal warning the stages surfaced.
type Result struct {
	Record   entity.CanonicalRecord
	Warnings []string
}

type Processor struct {
	cfg       common.PipelineConfig
	acquirer  *textacq.Acquirer
	header    HeaderResolver     // nil disables the header-OCR supplier fallback
	extractor llm.FieldExtractor // nil disables model enrichment
	logger    *slog.Logger
}

func NewProcessor(cfg common.PipelineConfig, acquirer *textacq.Acquirer, header HeaderResolver, extractor llm.FieldExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		cfg:       cfg,
		acquirer:  acquirer,
		header:    header,
		extractor: extractor,
		logger:    logger,
	}
}

// ProcessDocument runs the full pipeline for one document. It never returns
// an error: every stage degrades to absent fields and a warning.
func (p *Processor) ProcessDocument(ctx context.Context, name string, pdf []byte) Result {
	docID := uuid.New().String()
	start := time.Now()

	text, warnings := p.acquirer.Acquire(ctx, pdf)
	p.logger.Info("pipeline.acquired",
		"doc_id", docID, "file", name,
		"method", text.Method, "pages", len(text.Pages), "bytes", len(text.Full),
	)

	rx := parse.ExtractFindings(text.Full)

	headerSupplier := ""
	if rx.Supplier == "" && p.cfg.UseOCR && p.header != nil {
		ht, err := p.header.HeaderText(ctx, pdf)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("header ocr: %v", err))
		} else {
			headerSupplier = parse.ResolveHeaderSupplier(ht)
		}
	}

	// the model is only consulted when enabled AND there is text to send;
	// a skipped model reads as "regex only", not as a fallback failure
	modelQueried := false
	var mf *entity.ModelFindings
	if p.cfg.UseAI && p.extractor != nil && !text.Empty() {
		modelQueried = true
		findings, _, err := p.extractor.ExtractFields(ctx, text.Full)
		if err != nil {
			warnings = append(warnings, common.WrapError(err, "model enrichment").Error())
		} else {
			mf = findings
		}
	}

	rec := merge.Reconcile(name, rx, headerSupplier, mf, modelQueried)

	p.logger.Info("pipeline.done",
		"doc_id", docID, "file", name,
		"method", string(rec.Method),
		"supplier", rec.Supplier, "customer", rec.Customer,
		"date", rec.InvoiceDate, "number", rec.InvoiceNumber, "total", rec.Total,
		"warnings", len(warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Record: rec, Warnings: warnings}
}

// Records flattens batch results into the record list the exporter takes.
func Records(results []Result) []entity.CanonicalRecord {
	recs := make([]entity.CanonicalRecord, 0, len(results))
	for _, r := range results {
		recs = append(recs, r.Record)
	}
	return recs
}

// ProcessBatch runs the documents sequentially and accumulates the records
// for export. Only the result list outlives the per-document state.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) []Result {
	results := make([]Result, 0, len(docs))
	warned := 0
	for _, doc := range docs {
		res := p.ProcessDocument(ctx, doc.Name, doc.Data)
		if len(res.Warnings) > 0 {
			warned++
			for _, w := range res.Warnings {
				p.logger.Warn("pipeline.warning", "file", doc.Name, "warning", w)
			}
		}
		results = append(results, res)
	}
	p.logger.Info("pipeline.batch_done", "documents", len(docs), "with_warnings", warned)
	return results
}
