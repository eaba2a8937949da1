package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"invoicepipe/internal/common"
	"invoicepipe/internal/entity"
)

// Config for the local completion endpoint (Ollama wire format).
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration // single attempt, no retries
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 160 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

// ExtractFields sends the bounded extraction prompt and parses the model's
// JSON. Any failure — transport, status, or parse — comes back as a nil
// findings pointer plus an error the caller downgrades to a warning; the
// pipeline never aborts on this path.
func (c *Client) ExtractFields(ctx context.Context, text string) (*entity.ModelFindings, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(text),
	)

	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": BuildPrompt(text),
		"stream": false,
		"format": "json",
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"

	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.log.Warn("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.WrapError(common.ErrService, err.Error())
	}

	var gen struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		c.log.Warn("llm.extract.envelope_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.WrapError(common.ErrParse, err.Error())
	}
	content := []byte(strings.TrimSpace(gen.Response))

	obj, err := DecodeLoose(content)
	if err != nil {
		// surface the raw text so the operator can see what came back
		c.log.Warn("llm.extract.parse_error",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, content, common.WrapError(common.ErrParse, err.Error())
	}

	canonical, _ := json.Marshal(obj)
	if vErr := ValidateModelOutput(canonical); vErr != nil {
		// advisory only: merge re-checks every value
		c.log.Warn("llm.extract.schema_mismatch", "req_id", rid, "error", vErr)
	}

	findings := FindingsFromMap(obj)
	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"supplier", findings.Supplier,
		"date", findings.InvoiceDate,
		"total", findings.Total,
		"currency", findings.Currency,
		"line_items", len(findings.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &findings, content, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion endpoint: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("llm response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, fmt.Errorf("completion status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
