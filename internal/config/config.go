// Package config loads service configuration from the environment and
// CLI configuration from an optional yaml file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nick-skriabin/readtime/internal/timeline"
)

type Config struct {
	Port string

	// Auth. Empty disables bearer auth.
	APIKey string

	// Estimation defaults for new sessions.
	WordsPerMinute float64
	Format         string

	// Recompute scheduling
	Debounce   time.Duration
	SessionTTL time.Duration

	// Upload limits
	MaxUploadBytes int64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("READTIME_API_KEY"),

		WordsPerMinute: envFloat("WORDS_PER_MINUTE", 200),
		Format:         envOr("FORMAT", "full"),

		Debounce:   envDuration("DEBOUNCE", 100*time.Millisecond),
		SessionTTL: envDuration("SESSION_TTL", 2*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = 200
	}
	if cfg.Debounce < 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if _, err := timeline.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("FORMAT: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
