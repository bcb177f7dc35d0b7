package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minFetchTimeout = time.Second
	maxFetchTimeout = 2 * time.Minute
	minFetchBytes   = 64 << 10
	maxFetchBytes   = 64 << 20
)

// FetchConfig controls how pages are retrieved.
type FetchConfig struct {
	Type      string        `mapstructure:"type"` // http or chromedp
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Normalize clamps limits and standardises the fetcher type.
func (c FetchConfig) Normalize() FetchConfig {
	cfg := c
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))
	if cfg.Type == "" {
		cfg.Type = "http"
	}
	if cfg.Timeout < minFetchTimeout {
		cfg.Timeout = minFetchTimeout
	}
	if cfg.Timeout > maxFetchTimeout {
		cfg.Timeout = maxFetchTimeout
	}
	if cfg.MaxBytes < minFetchBytes {
		cfg.MaxBytes = minFetchBytes
	}
	if cfg.MaxBytes > maxFetchBytes {
		cfg.MaxBytes = maxFetchBytes
	}
	cfg.UserAgent = strings.TrimSpace(cfg.UserAgent)
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0"
	}
	return cfg
}

// Validate ensures configuration is internally consistent.
func (c FetchConfig) Validate() error {
	switch c.Type {
	case "http", "chromedp":
	default:
		return fmt.Errorf("fetch.type must be http or chromedp, got %q", c.Type)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	return nil
}

// Normalize fills blank file names and lower-cases the style.
func (c OutputConfig) Normalize() OutputConfig {
	cfg := c
	if strings.TrimSpace(cfg.LogFile) == "" {
		cfg.LogFile = "citations_output.txt"
	}
	if strings.TrimSpace(cfg.ExportFile) == "" {
		cfg.ExportFile = "citations.txt"
	}
	cfg.DefaultStyle = strings.ToLower(strings.TrimSpace(cfg.DefaultStyle))
	return cfg
}
