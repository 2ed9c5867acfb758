package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	defaultMaxFileSize = 10 << 20
	defaultMaxBackups  = 5
)

// Setup builds the process logger. When logFile is set, records go to
// stdout and a rotating file; the returned closer releases the file.
func Setup(level, logFile string) (*slog.Logger, io.Closer, error) {
	out := io.Writer(os.Stdout)
	var closer io.Closer = nopCloser{}

	if logFile != "" {
		fw, err := NewRotatingFileWriter(logFile, defaultMaxFileSize, defaultMaxBackups)
		if err != nil {
			return nil, nil, err
		}
		out = io.MultiWriter(os.Stdout, fw)
		closer = fw
	}

	return New(out, level), closer, nil
}

func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true,
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
