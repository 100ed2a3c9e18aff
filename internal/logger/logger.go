// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds logging options; embed it in a go-flags options struct as a group.
// The terminal belongs to the map while it is running, so records go to a file.
type Logger struct {
	Level  string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"disabled" default:"info"`
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" choice:"json" choice:"text" default:"json"`
	File   string `long:"log-file"   env:"LOG_FILE"   description:"Log file path, '-' for stderr" default:"urbanview.log"`
}

// stderr is where records go when no file is configured or the file cannot be opened.
var stderr io.Writer = os.Stderr

// Setup configures the global logger. A log file that cannot be opened is reported
// and logging falls back to stderr, so the caller can still log the failure.
func (l Logger) Setup() error {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := stderr
	var openErr error
	if l.File != "" && l.File != "-" {
		f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			out, openErr = stderr, err
		} else {
			out = f
		}
	}

	log.Logger = New(out, l.Format)
	return openErr
}

// New builds a logger writing to w in the given format ("json" or "text").
func New(w io.Writer, format string) zerolog.Logger {
	if format == "text" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}
