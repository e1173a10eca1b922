package falconlog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLogFormatsLevelAndMessage(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)
	l.Log("warn", "bus error at %#x", uint32(0x1234))

	out := buf.String()
	if !strings.Contains(out, "WARN:") {
		t.Fatalf("expected WARN level in output, got %q", out)
	}
	if !strings.Contains(out, "bus error at 0x1234") {
		t.Fatalf("expected formatted message, got %q", out)
	}
}

func TestLogFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelWarn)
	l.Log("debug", "noisy trace line")
	if buf.Len() != 0 {
		t.Fatalf("debug line should have been filtered, got %q", buf.String())
	}
}
