package internal

import (
	"log"
	"os"
	"strings"
)

// LogLevel is a verbosity threshold. A logger emits everything at its level
// and below, so LogLevelError is the quietest setting.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var levelTags = [...]string{"[ERROR]", "[WARN]", "[INFO]", "[DEBUG]"}

// ParseLogLevel maps a LOG_LEVEL value to a level, case-insensitively.
// Unrecognized values fall back to INFO rather than erroring, so a typo in
// deployment config never silences the process.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// Logger is a small leveled front over the stdlib log package. Output is
// plain tagged lines for operators; anything that needs structure belongs in
// the response envelope, not the log.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger writing to stderr at the given threshold.
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	if level > l.level {
		return
	}
	l.out.Printf(levelTags[level]+" "+format, args...)
}

// Error logs unconditionally; the error level cannot be filtered out.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogLevelError, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogLevelWarn, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogLevelInfo, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogLevelDebug, format, args...)
}

// DefaultLogger reads LOG_LEVEL once at startup. Components accept a logger
// and fall back to this when handed nil.
var DefaultLogger = NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")))
