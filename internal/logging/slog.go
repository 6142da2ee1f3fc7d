package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// osStdout is the console sink; tests swap it for a pipe.
var osStdout io.Writer = os.Stdout

// SlogManager manages slog-based logging with an optional Graylog sink.
type SlogManager struct {
	logger *slog.Logger
	level  slog.Level

	gelf *gelf.Writer
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerOptions(lvl slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}
}

// Setup initializes the logging system. When file is nil records go to
// stdout, otherwise only to file. Extra handlers (e.g. the Graylog sink)
// receive every record as well.
func (m *SlogManager) Setup(file io.Writer, level string, extra ...slog.Handler) {
	m.level = parseLevel(level)
	opts := handlerOptions(m.level)

	var handlers []slog.Handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(osStdout, opts))
	}
	handlers = append(handlers, extra...)

	m.logger = slog.New(NewMultiHandler(handlers...))
	m.logger.Info("Logging initialized", "level", m.level.String())
}

// EnableGraylog opens a GELF writer to addr and returns a JSON handler
// feeding it. The writer is closed by Close.
func (m *SlogManager) EnableGraylog(addr string) (slog.Handler, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, err
	}
	m.gelf = w
	return slog.NewJSONHandler(w, handlerOptions(m.level)), nil
}

// WithContext wraps the current logger so every record carries the
// attributes returned by provider.
func (m *SlogManager) WithContext(provider ContextProvider) {
	base := m.Logger()
	m.logger = slog.New(NewContextHandler(base.Handler(), provider))
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Level returns the parsed level from the last Setup call.
func (m *SlogManager) Level() slog.Level {
	return m.level
}

// Close releases the Graylog writer if one was opened.
func (m *SlogManager) Close(_ context.Context) error {
	if m.gelf == nil {
		return nil
	}
	err := m.gelf.Close()
	m.gelf = nil
	return err
}
