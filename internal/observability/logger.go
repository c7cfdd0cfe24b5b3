// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability builds the zerolog loggers used across the engine.
// Diagnostics always go to stderr; stdout is reserved for command output.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/review-engine/pkg/types"
)

// NewLogger creates a logger from configuration. Format "console" (the CLI
// default) renders human-readable lines; anything else emits JSON.
func NewLogger(cfg types.LogConfig) zerolog.Logger {
	var output io.Writer = os.Stderr
	if strings.ToLower(cfg.Format) == "console" || cfg.Format == "" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
}

// parseLevel converts a level name to a zerolog.Level, defaulting to warn.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}
