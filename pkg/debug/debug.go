// Package debug provides conditional debug logging for dv.
//
// Debug logging is enabled by setting the DV_DEBUG environment variable:
//
//	DV_DEBUG=1 dv
//
// When enabled, debug messages are written to stderr with timestamps.
// When disabled (default), all debug functions are no-ops with zero overhead.
package debug

import (
	"log"
	"os"
)

var (
	// enabled is true when DV_DEBUG env var is set
	enabled bool
	// logger writes to stderr with [DV_DEBUG] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("DV_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, mainly so the TUI can send it to a file
// instead of corrupting the alternate screen.
func SetOutput(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	logger = log.New(f, "[DV_DEBUG] ", log.Ltime|log.Lmicroseconds)
	return nil
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}
