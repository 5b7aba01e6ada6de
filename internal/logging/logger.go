// ABOUTME: Configures the process-wide logrus logger.
// ABOUTME: Level names are case-insensitive; unknown names fall back to info.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupParams controls logger output.
type SetupParams struct {
	LogLevel      string
	LogFormatJSON bool
	Output        io.Writer
}

// Setup applies params to the standard logrus logger. Output defaults to stderr so
// that command output on stdout stays clean.
func Setup(params SetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.Output == nil {
		logrus.SetOutput(os.Stderr)
		return
	}
	logrus.SetOutput(params.Output)
}

// GetLevel maps a level name to a logrus level.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "trace":
		return logrus.TraceLevel
	case "warn", "warning":
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// Discard returns a logger that drops everything, for tests and library callers.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
