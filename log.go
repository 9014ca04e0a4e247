package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/simplephon/internal/config"
)

// setupLog configures the global logger from the environment. Logs go to
// stderr unless SIMPLEPHON_LOG_FILE names a file to append to.
func setupLog() (func() error, error) {
	e, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(e.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid SIMPLEPHON_LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	if e.LogFile == "" {
		return func() error { return nil }, nil
	}

	logFile := config.ExpandPath(e.LogFile)
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}
