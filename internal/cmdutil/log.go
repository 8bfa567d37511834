// internal/cmdutil/log.go
package cmdutil

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// SetupLogging points the package-level logrus logger, which the core
// packages write to, at dst. quiet keeps only errors; debug wins over quiet.
func SetupLogging(dst io.Writer, quiet, debug bool) {
	log.SetOutput(dst)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           false,
	})
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// Warnf logs a warning unless quiet.
func Warnf(quiet bool, format string, a ...any) {
	if quiet {
		return
	}
	log.Warnf(format, a...)
}
