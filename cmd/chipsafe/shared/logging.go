package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging at the named level. debug forces
// the debug level regardless of name.
func SetupLogger(levelName string, debug bool) *log.Logger {
	level := log.InfoLevel
	if parsed, err := log.ParseLevel(levelName); err == nil {
		level = parsed
	}
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}
