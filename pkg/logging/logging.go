// Package logging provides component loggers for orchest-fs. Before Init
// is called every logger writes to io.Discard, so library code can log
// unconditionally.
//
//	logger := logging.Get("manager")
//	logger.Info("tree initialized", "roots", 2)
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// Config configures the logging system.
type Config struct {
	// Level is the log level: debug, info, warn or error.
	Level string

	// Path is the log file path. Empty uses DefaultLogPath. "-" writes
	// to stderr instead of a file.
	Path string
}

// Logger is a component-scoped logger.
type Logger struct {
	*log.Logger
}

type state struct {
	mu      sync.Mutex
	writer  io.WriteCloser
	level   log.Level
	loggers map[string]*Logger
}

var global = &state{
	level:   log.InfoLevel,
	loggers: make(map[string]*Logger),
}

// ParseLevel parses a level string, defaulting to info for unknown input.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level: %q", s)
	}
}

// DefaultLogPath returns the default log file path under the XDG state
// directory.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "orchest", "orchest-fs.log")
}

// Init initializes the logging system. Loggers handed out earlier start
// writing to the configured destination.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	var w io.WriteCloser
	switch cfg.Path {
	case "-":
		w = os.Stderr
	default:
		path := cfg.Path
		if path == "" {
			path = DefaultLogPath()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer != nil && global.writer != os.Stderr {
		_ = global.writer.Close()
	}
	global.writer = w
	global.level = level

	for _, l := range global.loggers {
		l.SetOutput(w)
		l.SetLevel(level)
	}
	return nil
}

// Close flushes and closes the log destination.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.writer == nil || global.writer == os.Stderr {
		return nil
	}
	err := global.writer.Close()
	global.writer = nil
	for _, l := range global.loggers {
		l.SetOutput(io.Discard)
	}
	return err
}

// Get returns the logger for a component, creating it on first use.
func Get(component string) *Logger {
	global.mu.Lock()
	defer global.mu.Unlock()

	if l, ok := global.loggers[component]; ok {
		return l
	}

	var out io.Writer = io.Discard
	if global.writer != nil {
		out = global.writer
	}
	l := &Logger{log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          component,
		Level:           global.level,
	})}
	global.loggers[component] = l
	return l
}
