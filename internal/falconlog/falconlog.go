// Package falconlog wraps log/slog behind the core's outbound
// log(level, format, args) interface (§6), following the handler shape
// the rcornwell-S370 example builds over slog rather than introducing a
// third-party structured logging library.
package falconlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler formats each record as "time level message attrs..." on a
// single line, mirroring the corpus's own plain-text slog.Handler.
type Handler struct {
	out io.Writer
	mu  *sync.Mutex
	min slog.Level
}

// NewHandler builds a Handler writing to out, filtering below min.
func NewHandler(out io.Writer, min slog.Level) *Handler {
	return &Handler{out: out, mu: &sync.Mutex{}, min: min}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.min
}

func (h *Handler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *Handler) WithGroup(_ string) slog.Handler      { return h }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	parts := []string{r.Time.Format("15:04:05.000"), r.Level.String() + ":", r.Message}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.Key+"="+a.Value.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write([]byte(line))
	return err
}

// Logger adapts an *slog.Logger to the m68k.CPU/dsp.Core outbound
// func(level, format string, args ...any) signature (§6).
type Logger struct {
	s *slog.Logger
}

// New builds a Logger writing to out at or above min.
func New(out io.Writer, min slog.Level) *Logger {
	return &Logger{s: slog.New(NewHandler(out, min))}
}

// Default builds a Logger writing to stderr at info level.
func Default() *Logger {
	return New(os.Stderr, slog.LevelInfo)
}

// Log implements the core components' log(level, format, args) hook.
// level is one of "debug", "info", "warn", "error"; unrecognized values
// fall back to info.
func (l *Logger) Log(level, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	switch level {
	case "debug":
		l.s.Debug(msg)
	case "warn", "warning":
		l.s.Warn(msg)
	case "error":
		l.s.Error(msg)
	default:
		l.s.Info(msg)
	}
}
