// Package logging holds the process-wide logger. The terminal belongs to the
// UI while it runs, so Init points the logger at a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger
var L = clog.New(io.Discard)

// DefaultPath returns the log file used when none is configured
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "issuerpick.log"
	}
	return filepath.Join(dir, "issuerpick", "issuerpick.log")
}

// Init sends log output to path. The returned function closes the file.
func Init(path string, debug bool) (func() error, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	SetOutput(f, debug)
	return f.Close, nil
}

// SetOutput replaces the logger with one writing to w
func SetOutput(w io.Writer, debug bool) {
	l := clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Prefix:          "issuerpick",
	})
	if debug {
		l.SetLevel(clog.DebugLevel)
	}
	L = l
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}
