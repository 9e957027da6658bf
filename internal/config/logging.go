package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the structured logger used by the binaries. The level comes
// from SKYRAID_LOG_LEVEL (debug, info, warn, error; default info).
func NewLogger(w io.Writer, prefix string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(strings.ToLower(GetEnv("SKYRAID_LOG_LEVEL", "info")))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}
