package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Production and staging emit JSON at
// info level; development and cli get a console writer at debug level so
// audit and transition events are readable while poking at the service.
func NewLogger(appEnv string) zerolog.Logger {
	switch appEnv {
	case "production", "staging":
		return zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	default:
		console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(console).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
}

// Logger keeps callers on a package-local name for the logging contract.
type Logger = zerolog.Logger
