package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"invoicepipe/internal/common"
	"invoicepipe/internal/export"
	"invoicepipe/internal/ingest"
	"invoicepipe/internal/llm"
	"invoicepipe/internal/ocr"
	"invoicepipe/internal/pipeline"
	"invoicepipe/internal/textacq"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir   = flag.String("dir", "", "directory of invoice PDFs to process (required)")
		out   = flag.String("out", "", "output XLSX path (defaults to <dir parent>/fatture.xlsx)")
		csv   = flag.String("csv", "", "also write a semicolon-separated CSV to this path")
		model = flag.String("model", "", "override the completion model name")
		noAI  = flag.Bool("no-ai", false, "skip model enrichment, heuristics only")
		noOCR = flag.Bool("no-ocr", false, "skip the OCR fallback and header crop")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "fatture.xlsx")
	}

	// .env is optional; real environment wins either way
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *model != "" {
		cfg.LLM.Model = *model
	}
	if *noAI {
		cfg.Pipeline.UseAI = false
	}
	if *noOCR {
		cfg.Pipeline.UseOCR = false
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var engine *ocr.Engine
	if cfg.Pipeline.UseOCR {
		engine = ocr.NewEngine(ocr.Config{
			Pdftoppm:  cfg.OCR.Pdftoppm,
			Tesseract: cfg.OCR.Tesseract,
			Language:  cfg.OCR.Language,
			DPI:       cfg.OCR.DPI,
			MaxPages:  cfg.OCR.MaxPages,
		}, logger)
	}

	var ocrBackend textacq.OCRBackend
	var header pipeline.HeaderResolver
	if engine != nil {
		ocrBackend = engine
		header = engine
	}
	acquirer := textacq.NewAcquirer(cfg.Pipeline.MinTextLen, ocrBackend, logger)

	var extractor llm.FieldExtractor
	if cfg.Pipeline.UseAI {
		extractor = llm.NewClient(llm.Config{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		logger.Info("model enrichment enabled", "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)
	} else {
		logger.Info("model enrichment disabled, heuristics only")
	}

	logger.Info("scanning directory", "dir", *dir)
	docs, fileResults, stats, err := ingest.ScanDirectory(*dir, true)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}
	for _, fr := range fileResults {
		if fr.Err != "" {
			logger.Warn("skipping file", "path", fr.Path, "error", fr.Err)
		}
	}
	logger.Info("scan complete",
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"loaded", stats.Loaded,
		"failed", stats.Failed)
	if len(docs) == 0 {
		printError("Error: no PDF documents found under %s\n", *dir)
		os.Exit(1)
	}

	processor := pipeline.NewProcessor(cfg.Pipeline, acquirer, header, extractor, logger)
	results := processor.ProcessBatch(ctx, docs)

	exporter := export.NewService(logger)
	rows := pipeline.Records(results)

	xlsxBytes, err := exporter.WriteXLSX(rows)
	if err != nil {
		logger.Error("failed to build XLSX", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "path", *out, "error", err)
		os.Exit(1)
	}

	if *csv != "" {
		csvBytes, err := exporter.WriteCSV(rows)
		if err != nil {
			logger.Error("failed to build CSV", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*csv, csvBytes, 0o644); err != nil {
			logger.Error("failed to write CSV file", "path", *csv, "error", err)
			os.Exit(1)
		}
	}

	warned := 0
	for _, r := range results {
		if len(r.Warnings) > 0 {
			warned++
		}
	}
	logger.Info("batch complete",
		"documents", len(docs),
		"with_warnings", warned,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Documents processed: %d\n", len(docs))
	fmt.Printf("- With warnings: %d\n", warned)
	fmt.Printf("- Output: %s\n", *out)
	if *csv != "" {
		fmt.Printf("- CSV: %s\n", *csv)
	}
}
