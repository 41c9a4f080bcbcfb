package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config is the process-level configuration. Book-level settings arrive from
// mdBook over stdin and are handled by the replace package.
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	cfg := Config{
		LogLevel:  strings.ToLower(envOr("MDBOOK_REPLACE_LOG_LEVEL", "warn")),
		LogFormat: strings.ToLower(envOr("MDBOOK_REPLACE_LOG_FORMAT", "text")),
	}
	return cfg
}

func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("MDBOOK_REPLACE_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// Logger builds the process logger. Output goes to w, which must not be
// stdout: stdout carries the book back to mdBook.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("MDBOOK_REPLACE_LOG_LEVEL: %w", err)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
