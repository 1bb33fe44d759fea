// Package logging provides leveled, component-prefixed logging for unifs.
package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents a logging verbosity level
type Level int

const (
	// LevelError only logs errors
	LevelError Level = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs general information, warnings and errors
	LevelInfo
	// LevelDebug logs detailed debug information and all above
	LevelDebug
	// LevelTrace logs very detailed trace information and all above
	LevelTrace
)

var levelNames = map[Level]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// ParseLevel converts a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, bool) {
	for level, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return level, true
		}
	}
	return LevelInfo, false
}

// core is the state shared by a logger and all loggers derived from it,
// so that SetLevel on any of them affects the whole family.
type core struct {
	mu     sync.RWMutex
	level  Level
	logger *log.Logger
}

// Logger provides leveled logging with a component prefix
type Logger struct {
	core   *core
	prefix string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger instance.
// The initial level can be set through the UNIFS_LOG_LEVEL environment variable.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger("unifs")

		if name := os.Getenv("UNIFS_LOG_LEVEL"); name != "" {
			if level, ok := ParseLevel(name); ok {
				defaultLogger.SetLevel(level)
			}
		}
	})
	return defaultLogger
}

// NewLogger creates a new logger writing to stdout with the given prefix
func NewLogger(prefix string) *Logger {
	flags := log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC
	return &Logger{
		core: &core{
			level:  LevelInfo,
			logger: log.New(os.Stdout, prefix+": ", flags),
		},
		prefix: prefix,
	}
}

// SetLevel sets the logging level for this logger and everything derived from it
func (l *Logger) SetLevel(level Level) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.level = level
}

// shouldLog determines if a message at the given level should be logged
func (l *Logger) shouldLog(level Level) bool {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return level <= l.core.level
}

// log performs the actual logging
func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] (%s) %s", levelNames[level], l.prefix, msg)
	if err := l.core.logger.Output(3, line); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write log message: %v\n", err)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(LevelTrace, format, args...)
}

// WithPrefix creates a logger for a sub-component. The returned logger shares
// its level and output with the receiver.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		core:   l.core,
		prefix: prefix,
	}
}
