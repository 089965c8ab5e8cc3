// Package logging owns the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger(os.Stderr)
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init points the logger at logPath, creating parent directories. An empty
// path logs to stderr. Calling Init again closes the previous file.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	out := io.Writer(os.Stderr)
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log dir %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", logPath, err)
		}
		logFile = file
		out = file
	}

	logger.SetOutput(out)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	return nil
}

// Close releases the log file and falls back to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	logger.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the shared logger for components that attach fields.
func Logger() logrus.FieldLogger {
	return logger
}

// LogEvent writes a formatted info line.
func LogEvent(format string, args ...any) {
	logger.Infof(format, args...)
}

// LogDebug writes a formatted debug line; dropped unless debug is enabled.
func LogDebug(format string, args ...any) {
	logger.Debugf(format, args...)
}
