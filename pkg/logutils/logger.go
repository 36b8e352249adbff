// Package logutils builds the process-wide zerolog logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/storefront/internal/core/logging"
)

// New builds the storefront logger at level (debug, info, warn, error,
// fatal). With a file, records are appended as JSON and tagged with the
// process id, since the TUI, the API server, and one-off CLI commands can
// share one data directory and log file. Without a file, records go to
// stderr in console form so they never mix with command output on stdout.
//
// The returned func closes the log file.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("parse log level: %w", err)
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}

		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	ctx := zerolog.New(writer).
		Hook(logging.ContextHook{}).
		With().
		Timestamp()
	if file != "" {
		ctx = ctx.Int("pid", os.Getpid())
	}

	return ctx.Logger().Level(lvl), closer, nil
}
