package luckbook

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultLogger implements Logger on top of logrus
type DefaultLogger struct {
	entry *logrus.Entry
}

// NewDefaultLogger creates a logger writing to stderr at info level in text format
func NewDefaultLogger() *DefaultLogger {
	return NewLoggerFromConfig(&LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat})
}

// NewLoggerFromConfig creates a logrus backed logger. Unknown levels fall back to info.
func NewLoggerFromConfig(config *LogConfig) *DefaultLogger {
	if config == nil {
		config = DefaultLogConfig()
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(config.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &DefaultLogger{entry: logrus.NewEntry(l).WithField("component", "luckbook")}
}

// NewLoggerWithLogrus wraps an existing logrus logger
func NewLoggerWithLogrus(l *logrus.Logger) *DefaultLogger {
	return &DefaultLogger{entry: logrus.NewEntry(l).WithField("component", "luckbook")}
}

// WithField returns a logger that attaches key=value to every entry
func (l *DefaultLogger) WithField(key string, value any) *DefaultLogger {
	return &DefaultLogger{entry: l.entry.WithField(key, value)}
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) {
	l.entry.Debugf(msg, args...)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) {
	l.entry.Infof(msg, args...)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...any) {
	l.entry.Warnf(msg, args...)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) {
	l.entry.Errorf(msg, args...)
}

// SilentLogger implements Logger interface but does not output any logs
// This is useful for testing environments where log output is not desired
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (l *SilentLogger) Debug(msg string, args ...any) {}

func (l *SilentLogger) Info(msg string, args ...any) {}

func (l *SilentLogger) Warn(msg string, args ...any) {}

func (l *SilentLogger) Error(msg string, args ...any) {}
