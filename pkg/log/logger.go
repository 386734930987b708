// Package log provides structured logging for canopy pipelines.
//
// Logging is built on log/slog with a JSON handler. Errors created by
// pkg/errors carry cockroachdb stack traces; the handler in this package
// extracts them into a dedicated attribute so they survive JSON encoding.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// SetupLogger installs a JSON slog logger at the given level as the default.
func SetupLogger(loglevel string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, loglevel)))
}

// NewHandler builds the JSON handler writing to w, wrapped so error
// stack traces survive encoding. Level and message keys are renamed to
// severity and message for log collectors.
func NewHandler(w io.Writer, loglevel string) slog.Handler {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.LevelKey:
				attr = slog.Attr{
					Key:   "severity",
					Value: attr.Value,
				}
			case slog.MessageKey:
				attr = slog.Attr{
					Key:   "message",
					Value: attr.Value,
				}
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	return WrapByErrFmtHandler(handler)
}

// ToLogLevel converts a level name to a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
