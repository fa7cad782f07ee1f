package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide console logger. Verbose lowers the level to
// debug, which includes the captured engine output per invocation.
func New(verbose bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// WithComponent scopes a logger to one pipeline component.
func WithComponent(log zerolog.Logger, component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}
