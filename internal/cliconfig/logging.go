package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/dugout-dev/dugout/pkg/log"
)

// Logger returns the console logger the CLI writes to stderr.
func Logger(level string) zerolog.Logger {
	return log.NewConsoleLogger(os.Stderr, level)
}
