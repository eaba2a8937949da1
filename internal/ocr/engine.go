// Package ocr drives the external rasterize-and-recognize toolchain
// (pdftoppm + tesseract). The rest of the pipeline treats it as an opaque
// text-producing collaborator.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // tesseract language hint, default "ita"
	DPI      int    // rasterization DPI, default 300
	MaxPages int    // 0 = no limit
}

type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "ita"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Engine{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// Text rasterizes every page of the PDF and recognizes each image,
// concatenating page texts with a form-feed break marker.
func (e *Engine) Text(ctx context.Context, pdf []byte) (string, error) {
	start := time.Now()

	tmpDir, in, cleanup, err := e.materialize(pdf)
	if err != nil {
		return "", err
	}
	defer cleanup()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", in, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := e.tesseract(ctx, img)
		if err != nil {
			e.logger.Warn("ocr page failed", "image", filepath.Base(img), "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(txt)
	}

	e.logger.Debug("ocr.text.ok", "pages", len(matches), "bytes", b.Len(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return b.String(), nil
}

// HeaderText recognizes only the top strip of the first page, the region
// where the issuing company's letterhead lives. The crop assumes an A4-ish
// page: roughly the top 15% at the configured DPI.
func (e *Engine) HeaderText(ctx context.Context, pdf []byte) (string, error) {
	tmpDir, in, cleanup, err := e.materialize(pdf)
	if err != nil {
		return "", err
	}
	defer cleanup()

	w := int(float64(e.cfg.DPI) * 8.27)         // A4 width in inches
	h := int(float64(e.cfg.DPI) * 11.69 * 0.15) // top 15% of an A4 page

	prefix := filepath.Join(tmpDir, "header")
	args := []string{
		"-f", "1", "-l", "1",
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		"-x", "0", "-y", "0", "-W", fmt.Sprintf("%d", w), "-H", fmt.Sprintf("%d", h),
		"-png", in, prefix,
	}
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return "", fmt.Errorf("pdftoppm header crop: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no header image")
	}
	sort.Strings(matches)
	return e.tesseract(ctx, matches[0])
}

func (e *Engine) tesseract(ctx context.Context, img string) (string, error) {
	// tesseract <img> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// materialize writes the byte stream to a scratch file for the external
// tools, which only take paths.
func (e *Engine) materialize(pdf []byte) (tmpDir, path string, cleanup func(), err error) {
	tmpDir, err = os.MkdirTemp("", "ip-ocr-*")
	if err != nil {
		return "", "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(tmpDir) }
	path = filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(path, pdf, 0o600); err != nil {
		cleanup()
		return "", "", nil, err
	}
	return tmpDir, path, cleanup, nil
}
