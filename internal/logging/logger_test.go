package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn, &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("expected Debug/Info to be suppressed at LevelWarn, got: %q", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("expected Warn/Error to be emitted at LevelWarn, got: %q", output)
	}
}

func TestLoggerAtLevelDebugEmitsEverything(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelDebug, &buf)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	output := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %q", want, output)
		}
	}
}

func TestNilLoggerDiscardsOutput(t *testing.T) {
	var l *Logger
	// None of these must panic on a nil receiver.
	l.Error("error")
	l.Warn("warn")
	l.Info("info")
	l.Debug("debug")
}

func TestErrorMessageIncludesPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelError, &buf)
	l.Error("disk full")
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected message content in output, got: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "Error:") {
		t.Errorf("expected the Error: prefix in output, got: %q", buf.String())
	}
}
