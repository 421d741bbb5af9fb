package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Content
	ContentDir     string
	SiteConfigPath string
	StaticDir      string
	OutDir         string

	// PDF export, optional
	PDFPath string

	// Live reload
	Watch    bool
	Debounce time.Duration

	// Static build
	BuildWorkers int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ContentDir:     envOr("RFCSITE_CONTENT_DIR", "../rfcs"),
		SiteConfigPath: envOr("RFCSITE_SITE_CONFIG", "site.toml"),
		StaticDir:      envOr("RFCSITE_STATIC_DIR", "static"),
		OutDir:         envOr("RFCSITE_OUT_DIR", "build"),

		PDFPath: os.Getenv("RFCSITE_PDF_PATH"),

		Watch:    envBool("RFCSITE_WATCH", true),
		Debounce: envDuration("RFCSITE_DEBOUNCE", 300*time.Millisecond),

		BuildWorkers: envInt("RFCSITE_BUILD_WORKERS", 4),
	}

	if cfg.BuildWorkers <= 0 {
		cfg.BuildWorkers = 4
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("RFCSITE_CONTENT_DIR is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
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
