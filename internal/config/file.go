package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional on-disk config the CLI reads.
type FileConfig struct {
	WordsPerMinute float64 `yaml:"words_per_minute"`
	Format         string  `yaml:"format"`
	Debounce       string  `yaml:"debounce"`
	NoColor        bool    `yaml:"no_color"`
}

func DefaultFileConfig() FileConfig {
	return FileConfig{
		WordsPerMinute: 200,
		Format:         "full",
		Debounce:       "100ms",
	}
}

// LoadFile reads a yaml config from path. A missing file yields
// defaults; a malformed one is an error.
func LoadFile(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.WordsPerMinute <= 0 {
		cfg.WordsPerMinute = 200
	}
	if cfg.Format == "" {
		cfg.Format = "full"
	}
	return cfg, nil
}

// DebounceDuration parses the configured settle window, falling back
// to 100ms on anything unparseable or negative.
func (c FileConfig) DebounceDuration() time.Duration {
	if c.Debounce == "" {
		return 100 * time.Millisecond
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil || d < 0 {
		return 100 * time.Millisecond
	}
	return d
}

// DefaultPath returns the standard config location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "readtime", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "readtime", "config.yaml")
}
