// Package logging provides the leveled, optionally colored console logger
// used across fixbatch, with an optional append-mode file sink.
//
// Output is gated by the run's verbosity: 0 prints only errors and notices,
// 1 adds progress (INFO, SUCCESS, WARN), 2 adds classifier DETAIL lines.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/fixbatch/internal/config"
	"github.com/backmassage/fixbatch/internal/term"
)

// Logger provides leveled, optionally colored logging with optional file sink.
// It is safe for concurrent use by pipeline workers.
type Logger struct {
	mu        sync.Mutex
	verbosity int
	out       io.Writer
	errOut    io.Writer
	file      *os.File
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile. Call Close() when done if LogFile was set.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{
		verbosity: cfg.Verbosity,
		out:       os.Stdout,
		errOut:    os.Stderr,
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
	}
	return l, nil
}

// NewWriter returns a logger that writes every level to w without colors.
// Used by tests and by callers that capture output.
func NewWriter(w io.Writer, verbosity int) *Logger {
	return &Logger{verbosity: verbosity, out: w, errOut: w}
}

// Verbosity returns the configured verbosity level.
func (l *Logger) Verbosity() int { return l.verbosity }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) line(level, color, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	l.mu.Lock()
	defer l.mu.Unlock()
	plain := ts + " [" + level + "] " + text + "\n"
	out := l.out
	if level == "ERROR" {
		out = l.errOut
	}
	if color != "" {
		_, _ = io.WriteString(out, ts+" "+color+"["+level+"]"+term.NC+" "+text+"\n")
	} else {
		_, _ = io.WriteString(out, plain)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, plain)
	}
}

// Info logs at INFO level (blue). Shown at verbosity >= 1.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.verbosity < config.VerbosityProgress {
		return
	}
	l.line("INFO", term.Blue, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green). Shown at verbosity >= 1.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.verbosity < config.VerbosityProgress {
		return
	}
	l.line("SUCCESS", term.Green, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow). Shown at verbosity >= 1; skip reasons
// for individual recordings go here.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.verbosity < config.VerbosityProgress {
		return
	}
	l.line("WARN", term.Yellow, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red) to stderr at every verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.Red, fmt.Sprintf(format, args...))
}

// Detail logs at DETAIL level (cyan), only at verbosity 2.
func (l *Logger) Detail(format string, args ...interface{}) {
	if l.verbosity < config.VerbosityDetail {
		return
	}
	l.line("DETAIL", term.Cyan, fmt.Sprintf(format, args...))
}

// Notice logs at NOTICE level (magenta) at every verbosity. Reserved for
// the closing run summary.
func (l *Logger) Notice(format string, args ...interface{}) {
	l.line("NOTICE", term.Magenta, fmt.Sprintf(format, args...))
}

// Blank writes an empty separator line at verbosity >= 1.
func (l *Logger) Blank() {
	if l.verbosity < config.VerbosityProgress {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, "\n")
}

// Print writes a preformatted block (such as a rendered table) without a
// level prefix, at verbosity >= 1. A trailing newline is added if missing.
func (l *Logger) Print(block string) {
	if l.verbosity < config.VerbosityProgress || block == "" {
		return
	}
	if block[len(block)-1] != '\n' {
		block += "\n"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, block)
	if l.file != nil {
		_, _ = io.WriteString(l.file, block)
	}
}
