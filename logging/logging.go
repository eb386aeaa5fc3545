package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// ParseLevel translates the string representation of a log level (case-insensitive) to a log level enum
func ParseLevel(s string) (int, error) {
	for level := TraceLevel; level <= FatalLevel; level++ {
		if strings.EqualFold(strings.TrimSpace(s), LogLevelToString(level)) {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// ToSlog translates a log level enum to the closest slog.Level. Trace sits below
// Debug, and Fatal above Error.
func ToSlog(level int) slog.Level {
	switch level {
	case TraceLevel:
		return slog.LevelDebug - 4
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelError + 4
	}
}

// New builds a logger which writes text to stderr and, if logFile is set, JSON to that file.
// The returned closer releases the file, and is never nil.
func New(level int, logFile string) (*slog.Logger, io.Closer, error) {
	return newLogger(os.Stderr, level, logFile)
}

func newLogger(w io.Writer, level int, logFile string) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ToSlog(level)}
	text := slog.NewTextHandler(w, opts)
	if logFile == "" {
		return slog.New(text), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slogmulti.Fanout(text, slog.NewJSONHandler(f, opts))), f, nil
}
