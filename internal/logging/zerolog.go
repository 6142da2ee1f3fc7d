package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewZerolog builds the structured logger used by the database and
// influx managers, honoring the same level names as Setup.
func NewZerolog(w io.Writer, level string, component string) zerolog.Logger {
	if w == nil {
		w = zerolog.ConsoleWriter{Out: osStdout, TimeFormat: "2006-01-02T15:04:05Z07:00", NoColor: true}
	}
	return zerolog.New(w).
		Level(zerologLevel(level)).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

func zerologLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
