// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package logging builds slog loggers from configuration values.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel converts a level name (debug, info, warn, error) into slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", name)
}

// ValidFormat returns true for a known output format.
func ValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON || format == ""
}

// New creates a logger, which writes to w. It does not touch the global logger.
// Unknown levels fall back to info, unknown formats to text.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Nop returns a logger, which drops everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
