// extracttext dumps the text the pipeline would see for one PDF, which is
// the first thing to check when a field comes out wrong.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"invoicepipe/internal/common"
	"invoicepipe/internal/ocr"
	"invoicepipe/internal/textacq"
)

func main() {
	var (
		file   = flag.String("file", "", "PDF file to extract text from (required)")
		noOCR  = flag.Bool("no-ocr", false, "native text layer only, no OCR fallback")
		header = flag.Bool("header", false, "also OCR the first-page header strip")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		os.Exit(1)
	}

	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: read %s: %v\n", *file, err)
		os.Exit(1)
	}

	var engine *ocr.Engine
	if !*noOCR {
		engine = ocr.NewEngine(ocr.Config{
			Pdftoppm:  cfg.OCR.Pdftoppm,
			Tesseract: cfg.OCR.Tesseract,
			Language:  cfg.OCR.Language,
			DPI:       cfg.OCR.DPI,
			MaxPages:  cfg.OCR.MaxPages,
		}, logger)
	}

	var backend textacq.OCRBackend
	if engine != nil {
		backend = engine
	}
	acquirer := textacq.NewAcquirer(cfg.Pipeline.MinTextLen, backend, logger)

	ctx := context.Background()
	text, warnings := acquirer.Acquire(ctx, data)

	fmt.Printf("== method: %s, pages: %d, chars: %d ==\n", text.Method, len(text.Pages), len(text.Full))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	for i, page := range text.Pages {
		fmt.Printf("\n-- page %d --\n%s\n", i+1, page)
	}

	if *header && engine != nil {
		ht, err := engine.HeaderText(ctx, data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: header ocr: %v\n", err)
		} else {
			fmt.Printf("\n-- header strip --\n%s\n", ht)
		}
	}
}
