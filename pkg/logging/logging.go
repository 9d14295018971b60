// Package logging provides structured logging for content-filter using zerolog.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger *zerolog.Logger
	pretty bool
)

func init() {
	// Default to JSON logging at warn level so a plain run only prints the report.
	l := zerolog.New(os.Stderr).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	logger = &l
}

// Init configures the global logger to write to stderr.
// If human is true, uses a human-friendly console writer and enables the
// "_h" companion fields on completion events.
func Init(level zerolog.Level, human bool) {
	InitTo(os.Stderr, level, human)
}

// InitTo configures the global logger to write to w.
func InitTo(w io.Writer, level zerolog.Level, human bool) {
	var output zerolog.LevelWriter
	if human {
		output = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}}
	} else {
		output = zerolog.LevelWriterAdapter{Writer: w}
	}

	SetLogger(zerolog.New(output).Level(level).With().Timestamp().Logger())
	SetPrettyMode(human)
}

// ParseLevel maps a level name to a zerolog level. Empty means warn.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	return zerolog.ParseLevel(name)
}

// L returns the base logger.
func L() *zerolog.Logger {
	return logger
}

// IsPrettyMode reports whether human-readable companion fields are emitted.
func IsPrettyMode() bool {
	return pretty
}

// WithPhase returns a logger with the phase field set.
func WithPhase(phase string) zerolog.Logger {
	return logger.With().Str("phase", phase).Logger()
}

// SetLogger replaces the global logger.
func SetLogger(l zerolog.Logger) {
	logger = &l
}

// SetPrettyMode toggles the human-readable companion fields.
func SetPrettyMode(on bool) {
	pretty = on
}
