// Package logger is the tagged, leveled logging sink shared by every service.
// The default sink writes JSON through log/slog; callers may replace it with Set.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// LevelSuccess sits between info and warn so success events survive an info
// level filter but never trip warn-level alerting.
const LevelSuccess = slog.Level(2)

// Logger is implemented by any sink the services can write to.
type Logger interface {
	Debug(tag, msg string, args ...any)
	Info(tag, msg string, args ...any)
	Warn(tag, msg string, args ...any)
	Error(tag, msg string, args ...any)
	Success(tag, msg string, args ...any)
}

type slogLogger struct {
	l *slog.Logger
}

// New returns a JSON logger writing to w at the given minimum level.
func New(w io.Writer, level slog.Level) Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelSuccess {
					a.Value = slog.StringValue("SUCCESS")
				}
			}
			return a
		},
	})
	return &slogLogger{l: slog.New(handler)}
}

// FromSlog adapts an existing slog logger.
func FromSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (s *slogLogger) log(level slog.Level, tag, msg string, args []any) {
	attrs := make([]any, 0, len(args)+2)
	attrs = append(attrs, "tag", tag)
	attrs = append(attrs, args...)
	s.l.Log(context.Background(), level, msg, attrs...)
}

func (s *slogLogger) Debug(tag, msg string, args ...any) { s.log(slog.LevelDebug, tag, msg, args) }
func (s *slogLogger) Info(tag, msg string, args ...any)  { s.log(slog.LevelInfo, tag, msg, args) }
func (s *slogLogger) Warn(tag, msg string, args ...any)  { s.log(slog.LevelWarn, tag, msg, args) }
func (s *slogLogger) Error(tag, msg string, args ...any) { s.log(slog.LevelError, tag, msg, args) }
func (s *slogLogger) Success(tag, msg string, args ...any) {
	s.log(LevelSuccess, tag, msg, args)
}

var (
	mu      sync.RWMutex
	current = New(os.Stdout, slog.LevelInfo)
)

// Set replaces the process-wide sink. A nil logger restores the default.
func Set(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = New(os.Stdout, slog.LevelInfo)
	}
	current = l
}

// Get returns the process-wide sink.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Debug(tag, msg string, args ...any)   { Get().Debug(tag, msg, args...) }
func Info(tag, msg string, args ...any)    { Get().Info(tag, msg, args...) }
func Warn(tag, msg string, args ...any)    { Get().Warn(tag, msg, args...) }
func Error(tag, msg string, args ...any)   { Get().Error(tag, msg, args...) }
func Success(tag, msg string, args ...any) { Get().Success(tag, msg, args...) }
