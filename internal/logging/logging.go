// SPDX-License-Identifier: MPL-2.0

// Package logging configures the process-wide structured logger.
//
// Diagnostics go to stderr through charmbracelet/log, which is also installed
// as the slog default handler so packages can log with log/slog without
// depending on the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Prefix is printed in front of every log line.
const Prefix = "packager"

type (
	// Level is a textual log level ("debug", "info", "warn", "error").
	Level string

	// Options controls logger construction.
	Options struct {
		// Output defaults to os.Stderr.
		Output io.Writer
		Level  Level
		// Timestamps adds a HH:MM:SS timestamp to every line.
		Timestamps bool
	}
)

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// LevelFor returns the level used for the given verbosity.
func LevelFor(verbose bool) Level {
	if verbose {
		return DebugLevel
	}
	return WarnLevel
}

func (l Level) charm() charmlog.Level {
	lvl, err := charmlog.ParseLevel(string(l))
	if err != nil {
		return charmlog.WarnLevel
	}
	return lvl
}

// New builds a charm logger for opts.
func New(opts Options) *charmlog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	logger := charmlog.NewWithOptions(out, charmlog.Options{
		Prefix:          Prefix,
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      "15:04:05",
		Level:           opts.Level.charm(),
	})
	logger.SetFormatter(charmlog.TextFormatter)
	return logger
}

// Install builds a logger and makes it the slog default.
func Install(opts Options) *charmlog.Logger {
	logger := New(opts)
	slog.SetDefault(slog.New(logger))
	return logger
}
