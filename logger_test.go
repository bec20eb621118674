package luckbook

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	logger := NewLoggerWithLogrus(base)

	logger.Debug("debug %d", 1)
	logger.Info("info %s", "two")
	logger.Warn("warn")
	logger.Error("error: %v", assert.AnError)

	entries := hook.AllEntries()
	require.Len(t, entries, 4)

	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "debug 1", entries[0].Message)
	assert.Equal(t, "info two", entries[1].Message)
	assert.Equal(t, logrus.WarnLevel, entries[2].Level)
	assert.Equal(t, logrus.ErrorLevel, entries[3].Level)
	assert.Equal(t, "luckbook", entries[3].Data["component"])
}

func TestDefaultLogger_WithField(t *testing.T) {
	base, hook := test.NewNullLogger()
	logger := NewLoggerWithLogrus(base).WithField("variant", MegaSena)

	logger.Info("generated")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, MegaSena, entry.Data["variant"])
	assert.Equal(t, "luckbook", entry.Data["component"])
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.WarnLevel)
	logger := NewLoggerWithLogrus(base)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "shown", hook.LastEntry().Message)
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    *LogConfig
		level     logrus.Level
		formatter logrus.Formatter
	}{
		{"nil_config", nil, logrus.InfoLevel, &logrus.TextFormatter{}},
		{"debug_json", &LogConfig{Level: "debug", Format: "JSON"}, logrus.DebugLevel, &logrus.JSONFormatter{}},
		{"unknown_level", &LogConfig{Level: "chatty", Format: "text"}, logrus.InfoLevel, &logrus.TextFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLoggerFromConfig(tt.config)
			assert.Equal(t, tt.level, logger.entry.Logger.GetLevel())
			assert.IsType(t, tt.formatter, logger.entry.Logger.Formatter)
		})
	}
}

func TestSilentLogger(t *testing.T) {
	var logger Logger = NewSilentLogger()
	assert.NotPanics(t, func() {
		logger.Debug("x %d", 1)
		logger.Info("x")
		logger.Warn("x")
		logger.Error("x")
	})
}
