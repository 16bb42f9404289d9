// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application logger.
//
// The TUI owns stdout, so logs are written to a file under the relay config
// directory (~/.relay/relay.log). Action-dispatch failures are logged at
// error level; ambient failures such as the typing indicator at debug.
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger writing to the given directory with the given
// level string (debug, info, warn, error). If the log file cannot be opened,
// the logger discards output rather than fighting the TUI for stdout.
func New(dir, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	f, err := openLogFile(dir)
	if err != nil {
		return zerolog.Nop()
	}

	output := zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).Level(parseLevel(level)).With().Timestamp().Logger()
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "relay.log")
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
