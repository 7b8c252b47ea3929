package logger

import (
	"fmt"
	"github.com/lmittmann/tint"
	"io"
	"log/slog"
	"os"
)

type Logger struct {
	*slog.Logger
}

func New(cfg *Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	handler := createHandler(cfg)
	logger := slog.New(handler)
	return &Logger{logger}, nil
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func createHandler(cfg *Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.GetSlogLevel(),
		AddSource: cfg.AddSource,
	}

	switch cfg.Format {
	case "text":
		return tint.NewHandler(out, &tint.Options{
			Level:      opts.Level,
			AddSource:  opts.AddSource,
			TimeFormat: "15:04:05",
		})
	case "json":
		fallthrough
	default:
		return slog.NewJSONHandler(out, opts)
	}
}

func (l *Logger) Component(name string) *Logger {
	return &Logger{l.Logger.With("component", name)}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}
