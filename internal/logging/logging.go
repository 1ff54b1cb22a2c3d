// Package logging gives every component a structured logger over log/slog.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Field is one structured attribute on a log line.
type Field = slog.Attr

func String(key, value string) Field                 { return slog.String(key, value) }
func Int(key string, value int) Field                { return slog.Int(key, value) }
func Float(key string, value float64) Field          { return slog.Float64(key, value) }
func Bool(key string, value bool) Field              { return slog.Bool(key, value) }
func Duration(key string, value time.Duration) Field { return slog.Duration(key, value) }

// Photo names the photo a line is about.
func Photo(path string) Field { return slog.String("photo", path) }

// Err records err under "error"; nil records an empty string.
func Err(err error) Field {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Logger writes per-photo and per-request records. Concurrent callers may
// interleave lines; each line stands on its own.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Config selects level, format and destination.
type Config struct {
	Level  string // info, warn, error
	Format string // text or json
	Output io.Writer
}

// New builds a Logger. Output defaults to stderr so stdout stays free for
// command results.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return logger{slog.New(slog.NewJSONHandler(out, opts))}
	}
	return logger{slog.New(slog.NewTextHandler(out, opts))}
}

// Noop drops everything.
func Noop() Logger { return logger{slog.New(slog.DiscardHandler)} }

type logger struct {
	l *slog.Logger
}

func (g logger) With(fields ...Field) Logger {
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	return logger{g.l.With(args...)}
}

func (g logger) Info(ctx context.Context, msg string, fields ...Field) {
	g.l.LogAttrs(ctx, slog.LevelInfo, msg, fields...)
}

func (g logger) Warn(ctx context.Context, msg string, fields ...Field) {
	g.l.LogAttrs(ctx, slog.LevelWarn, msg, fields...)
}

func (g logger) Error(ctx context.Context, msg string, fields ...Field) {
	g.l.LogAttrs(ctx, slog.LevelError, msg, fields...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
