// Package logging provides the leveled stderr logger used across the
// generator. Output goes to stderr so generated JSON and command output on
// stdout stay machine-readable.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug is for detailed per-plugin progress.
	LevelDebug Level = iota
	// LevelInfo is for run milestones.
	LevelInfo
	// LevelWarn is for skipped plugins and recoverable failures.
	LevelWarn
	// LevelError is for failures that abort the run.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var levelStyles = map[Level]lipgloss.Style{
	LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

// Logger writes leveled messages to a single destination.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

var std = &Logger{out: os.Stderr, level: LevelInfo}

// Default returns the process-wide logger.
func Default() *Logger { return std }

// SetLevel sets the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput redirects the logger, e.g. into the TUI while it owns the
// terminal.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	tag := levelStyles[level].Render(fmt.Sprintf("%-5s", level))
	fmt.Fprintf(l.out, "%s %s\n", tag, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func Debugf(format string, args ...any) { std.log(LevelDebug, format, args...) }

// Infof logs at info level.
func Infof(format string, args ...any) { std.log(LevelInfo, format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...any) { std.log(LevelWarn, format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...any) { std.log(LevelError, format, args...) }

// SetVerbose switches the default logger to debug level.
func SetVerbose(verbose bool) {
	if verbose {
		std.SetLevel(LevelDebug)
	} else {
		std.SetLevel(LevelInfo)
	}
}
