// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package logging writes flowdesk's run log. The console owns the terminal,
// so diagnostics go to a timestamped file instead of stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to a run log. A nil *Logger discards
// everything, so callers never need to check.
type Logger struct {
	mu        sync.Mutex
	file      *os.File
	startTime time.Time
	command   string
}

// New creates dir if needed and opens a log named after command and the
// start time.
func New(dir, command string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	logPath := filepath.Join(dir, fmt.Sprintf("%s-%s.log", command, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	l := &Logger{
		file:      file,
		startTime: time.Now(),
		command:   command,
	}
	l.writeHeader()
	return l, nil
}

func (l *Logger) writeHeader() {
	fmt.Fprintf(l.file, "%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(l.file, "flowdesk: %s\n", l.command)
	fmt.Fprintf(l.file, "Started: %s\n", l.startTime.Format(time.RFC3339))
	fmt.Fprintf(l.file, "%s\n\n", strings.Repeat("=", 80))
}

// Printf writes one line.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	timestamp := time.Now().Format("15:04:05")
	fmt.Fprintf(l.file, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
}

// Errorf writes one line prefixed with ERROR.
func (l *Logger) Errorf(format string, args ...any) {
	l.Printf("ERROR: "+format, args...)
}

// Section writes a section header.
func (l *Logger) Section(title string) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "\n--- %s ---\n", title)
}

// Path returns the log file's path.
func (l *Logger) Path() string {
	if l == nil || l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Close writes the footer, closes the file and returns its path.
func (l *Logger) Close() string {
	if l == nil || l.file == nil {
		return ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.file, "\n\nCompleted: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(l.file, "Duration: %s\n", time.Since(l.startTime).Round(time.Millisecond))

	path := l.file.Name()
	l.file.Close()
	l.file = nil
	return path
}
