package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the CLI logger. Extraction and resolution never log on their
// own behalf except at debug level.
var Logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	ReportCaller:    false,
})

// SetupLogging configures the logger based on verbosity.
func SetupLogging(verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	Logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: verbose,
		Prefix:          "ts-stub",
	})
}

func logWarning(format string, args ...interface{}) {
	Logger.Warn(fmt.Sprintf(format, args...))
}

func logDebug(format string, args ...interface{}) {
	Logger.Debug(fmt.Sprintf(format, args...))
}
