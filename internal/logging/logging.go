// Package logging builds the logrus loggers shared by the binaries.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clinical-ui-manifest/internal/domain"
)

// New creates a logger writing to out with the given level and format
// ("json" or "text"). An unparsable level falls back to info.
func New(level, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// FromConfig creates a logger from a logging configuration. Output is
// "stdout", "stderr" or a file path opened for appending.
func FromConfig(cfg domain.LoggingConfig) (*logrus.Logger, error) {
	var out io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.Output, err)
		}
		out = f
	}
	return New(cfg.Level, cfg.Format, out), nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New("panic", "json", io.Discard)
}
