package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Debug mode switches to a
// human-readable console writer; otherwise JSON lines go to stdout.
func Init(service string, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	var out = os.Stdout
	logger := zerolog.New(out)
	if debug {
		level = zerolog.DebugLevel
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}

	log.Logger = logger.
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Debug logs a debug message.
func Debug() *zerolog.Event { return log.Debug() }

// Info logs an info message.
func Info() *zerolog.Event { return log.Info() }

// Warn logs a warning message.
func Warn() *zerolog.Event { return log.Warn() }

// Error logs an error message.
func Error() *zerolog.Event { return log.Error() }

// Fatal logs a fatal message and exits.
func Fatal() *zerolog.Event { return log.Fatal() }
