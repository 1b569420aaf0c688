// Package wlog provides the process-wide logger the witness-generation core
// writes diagnostics through, in the style of gnark's own logging package:
// a single zerolog.Logger, toggled by the verbose-log configuration option
// (spec.md §6) rather than by an ambient global flag.
package wlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.Disabled)
)

// Logger returns the current process-wide logger.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &log
}

// SetVerbose enables or disables trace-level logging, matching the
// verbose-log option in spec.md §6's configuration surface.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		log = log.Level(zerolog.TraceLevel)
	} else {
		log = log.Level(zerolog.Disabled)
	}
}

// SetOutput redirects logging to w, preserving the current level. Useful
// for tests that want to assert on log content.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Output(w)
}
