// Package logging builds the process logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Common structured log field keys to keep logs consistent.
const (
	FieldRunID    = "run_id"
	FieldFile     = "file"
	FieldPosition = "position"
	FieldCategory = "category"
	FieldPlayer   = "player"
	FieldPlatform = "platform"
	FieldCount    = "count"
	FieldDuration = "duration_ms"
)

// New returns a text logger writing to stderr at the given level
// ("debug", "info", "warn", ...). Unknown levels fall back to info.
func New(level string) *logrus.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
