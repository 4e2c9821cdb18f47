// Package logging provides a small, explicitly-passed logger handle, in
// place of the Python original's ambient verbosity flag
// (`click.get_current_context().obj.verbose`, original_source/mhl/hasher.py
// and hash_folder.py). Spec §9 calls this out directly: "replace with an
// explicit logger handle passed through the session and traversal; no
// process-wide singleton." Styled after the teacher's pkg/logging package,
// which wraps github.com/fatih/color for colorized terminal output.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Level controls which severities a Logger emits.
type Level uint8

const (
	// LevelError emits only errors.
	LevelError Level = iota
	// LevelWarn emits warnings and errors.
	LevelWarn
	// LevelInfo emits informational messages, warnings, and errors.
	LevelInfo
	// LevelDebug emits everything, including verbose per-file tracing.
	LevelDebug
)

// Logger writes leveled, optionally colorized messages to an output stream.
// A nil *Logger is valid and discards all output, so components can accept
// one without requiring callers to construct a no-op implementation.
type Logger struct {
	level  Level
	output io.Writer
}

// New creates a Logger at the given level, writing to output.
func New(level Level, output io.Writer) *Logger {
	return &Logger{level: level, output: output}
}

// Default creates a Logger at LevelInfo, writing to standard error.
func Default() *Logger {
	return New(LevelInfo, os.Stderr)
}

func (l *Logger) log(level Level, prefix func(string) string, message string) {
	if l == nil || level > l.level {
		return
	}
	fmt.Fprintln(l.output, prefix(message))
}

// Error logs an error-level message.
func (l *Logger) Error(message string) {
	l.log(LevelError, func(m string) string { return color.RedString("Error:") + " " + m }, message)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(message string) {
	l.log(LevelWarn, func(m string) string { return color.YellowString("Warning:") + " " + m }, message)
}

// Info logs an informational message.
func (l *Logger) Info(message string) {
	l.log(LevelInfo, func(m string) string { return m }, message)
}

// Debug logs a verbose tracing message.
func (l *Logger) Debug(message string) {
	l.log(LevelDebug, func(m string) string { return color.HiBlackString(m) }, message)
}
