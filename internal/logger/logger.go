// Package logger provides logging for PrivaShield.
//
// Debug and Section write a plain-text pipeline trace to stderr when verbose
// mode is on (the --verbose flag). Info and Warn always go to the default
// slog logger, so serve mode records them in the structured stream that
// Setup installs; the *Context variants attach the request ID.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables the verbose trace.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for the verbose trace. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a trace line if verbose mode is enabled.
func Debug(format string, args ...any) {
	trace("[DEBUG] "+format+"\n", args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	trace("\n=== %s ===\n", name)
}

// trace holds the write lock so concurrent lines never interleave.
func trace(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, format, args...)
	}
}

// Info logs a formatted message at info level.
func Info(format string, args ...any) {
	InfoContext(context.Background(), format, args...)
}

// InfoContext is Info with the request ID from ctx.
func InfoContext(ctx context.Context, format string, args ...any) {
	FromContext(ctx).InfoContext(ctx, fmt.Sprintf(format, args...))
}

// Warn logs a formatted message at warn level, whatever the verbose setting.
func Warn(format string, args ...any) {
	WarnContext(context.Background(), format, args...)
}

// WarnContext is Warn with the request ID from ctx. Use it where a
// failure is absorbed while serving a request.
func WarnContext(ctx context.Context, format string, args ...any) {
	FromContext(ctx).WarnContext(ctx, fmt.Sprintf(format, args...))
}
