// Package logger provides leveled stderr logging for the docsage CLI.
// Debug and Info are gated on the --verbose flag; Warn and Error always
// print, so degraded wiring and background task failures surface even
// in quiet mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
	levelError
)

func (l level) label() string {
	switch l {
	case levelDebug:
		return "[DEBUG] "
	case levelInfo:
		return "[INFO] "
	case levelWarn:
		return "[WARN] "
	default:
		return "[ERROR] "
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests point it
// at a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
}

func emit(l level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < levelWarn && !verbose {
		return
	}
	fmt.Fprintf(output, l.label()+format+"\n", args...)
}

// Debug prints a message when verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(levelDebug, format, args...)
}

// Info prints an informational message when verbose mode is enabled.
func Info(format string, args ...any) {
	emit(levelInfo, format, args...)
}

// Warn prints a warning. Always visible.
func Warn(format string, args ...any) {
	emit(levelWarn, format, args...)
}

// Error prints an error. Always visible.
func Error(format string, args ...any) {
	emit(levelError, format, args...)
}

// Section prints a section header when verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
