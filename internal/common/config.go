package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	OCR      OCRConfig
	LLM      LLMConfig
}

// PipelineConfig holds the per-document pipeline toggles.
// These are explicit knobs passed into the processor, never ambient globals.
type PipelineConfig struct {
	UseAI      bool // query the local model and reconcile its output
	UseOCR     bool // fall back to OCR when the native text layer is too sparse
	MinTextLen int  // below this many chars the native layer counts as empty
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Language  string // tesseract language hint, default "ita"
	DPI       int    // rasterization DPI, default 300
	MaxPages  int    // 0 = no limit
}

// LLMConfig holds local completion endpoint configuration
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			UseAI:      getEnvAsBool("USE_AI", true),
			UseOCR:     getEnvAsBool("USE_OCR", true),
			MinTextLen: getEnvAsInt("MIN_TEXT_LEN", 40),
		},
		OCR: OCRConfig{
			Pdftoppm:  getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract: getEnv("TESSERACT_BIN", "tesseract"),
			Language:  getEnv("OCR_LANG", "ita"),
			DPI:       getEnvAsInt("OCR_DPI", 300),
			MaxPages:  getEnvAsInt("OCR_MAX_PAGES", 0),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("LLM_BASE_URL", "http://localhost:11434"),
			Model:   getEnv("LLM_MODEL", "mistral"),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 160*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.MinTextLen < 0 {
		return NewAppError("CONFIG_ERROR", "MIN_TEXT_LEN must be >= 0", ErrInvalidInput)
	}
	if c.LLM.BaseURL == "" && c.Pipeline.UseAI {
		return NewAppError("CONFIG_ERROR", "LLM_BASE_URL is required when USE_AI is set", ErrInvalidInput)
	}
	return nil
}
