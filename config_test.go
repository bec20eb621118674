package luckbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigManager_LoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "default_config",
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultRetryBudget, config.Generator.RetryBudget)
				assert.False(t, config.Generator.SecureRandom)
				assert.Equal(t, StorageBackendMemory, config.Storage.Backend)
				assert.Equal(t, DefaultGamesKey, config.Storage.GamesKey)
				assert.Equal(t, 100*time.Millisecond, config.Storage.RetryInterval)
				assert.Equal(t, "localhost:6379", config.Redis.Addr)
				assert.Equal(t, 30*time.Second, config.CircuitBreaker.Timeout)
				assert.Equal(t, time.Hour, config.Reminder.LeadTime)
				assert.False(t, config.Reminder.Enabled)
				assert.Equal(t, DefaultLogLevel, config.Log.Level)
			},
		},
		{
			name: "environment_variables",
			env: map[string]string{
				"LUCKBOOK_GENERATOR_RETRY_BUDGET": "250",
				"LUCKBOOK_STORAGE_BACKEND":        "redis",
				"LUCKBOOK_REDIS_ADDR":             "redis-cluster:6379",
				"LUCKBOOK_REMINDER_LEAD_TIME":     "30m",
				"LUCKBOOK_LOG_LEVEL":              "debug",
			},
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, 250, config.Generator.RetryBudget)
				assert.Equal(t, StorageBackendRedis, config.Storage.Backend)
				assert.Equal(t, "redis-cluster:6379", config.Redis.Addr)
				assert.Equal(t, 30*time.Minute, config.Reminder.LeadTime)
				assert.Equal(t, "debug", config.Log.Level)
			},
		},
		{
			name:        "invalid_retry_budget",
			env:         map[string]string{"LUCKBOOK_GENERATOR_RETRY_BUDGET": "0"},
			expectError: true,
		},
		{
			name:        "invalid_backend",
			env:         map[string]string{"LUCKBOOK_STORAGE_BACKEND": "sqlite"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cm := NewConfigManager()
			config, err := cm.LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cm.GetConfig())
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			assert.Same(t, config, cm.GetConfig())

			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestConfigManager_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "luckbook.yaml")
	content := `
generator:
  retry_budget: 42
  secure_random: true
storage:
  games_key: "studio:games"
  ttl: 24h
reminder:
  enabled: true
  schedule: "*/5 * * * *"
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cm := NewConfigManager()
	cm.SetConfigFile(path)

	config, err := cm.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 42, config.Generator.RetryBudget)
	assert.True(t, config.Generator.SecureRandom)
	assert.Equal(t, "studio:games", config.Storage.GamesKey)
	assert.Equal(t, DefaultAppointmentsKey, config.Storage.AppointmentsKey)
	assert.Equal(t, 24*time.Hour, config.Storage.TTL)
	assert.True(t, config.Reminder.Enabled)
	assert.Equal(t, "*/5 * * * *", config.Reminder.Schedule)
	assert.Equal(t, "json", config.Log.Format)

	t.Run("reload", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("generator:\n  retry_budget: 7\n"), 0o600))

		reloaded, err := cm.ReloadConfig()
		require.NoError(t, err)
		assert.Equal(t, 7, reloaded.Generator.RetryBudget)
	})

	t.Run("malformed_file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("generator: [unclosed"), 0o600))

		_, err := cm.ReloadConfig()
		assert.Error(t, err)
		assert.Equal(t, 7, cm.GetConfig().Generator.RetryBudget)
	})
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"valid_default", func(c *Config) {}, nil},
		{"missing_section", func(c *Config) { c.Reminder = nil }, ErrConfigInvalid},
		{"retry_budget_too_large", func(c *Config) { c.Generator.RetryBudget = MaxRetryBudget + 1 }, ErrInvalidRetryBudget},
		{"unknown_backend", func(c *Config) { c.Storage.Backend = "etcd" }, ErrConfigInvalid},
		{"empty_key", func(c *Config) { c.Storage.SettingsKey = "" }, ErrConfigInvalid},
		{"duplicate_keys", func(c *Config) { c.Storage.AppointmentsKey = c.Storage.GamesKey }, ErrConfigInvalid},
		{"negative_ttl", func(c *Config) { c.Storage.TTL = -time.Second }, ErrConfigInvalid},
		{"too_many_retries", func(c *Config) { c.Storage.RetryAttempts = MaxRetryAttempts + 1 }, ErrInvalidRetryAttempts},
		{"negative_interval", func(c *Config) { c.Storage.RetryInterval = -time.Millisecond }, ErrInvalidRetryInterval},
		{"redis_without_addr", func(c *Config) {
			c.Storage.Backend = StorageBackendRedis
			c.Redis.Addr = ""
		}, ErrConfigInvalid},
		{"redis_addr_ignored_for_memory", func(c *Config) { c.Redis.Addr = "" }, nil},
		{"failure_ratio_zero", func(c *Config) { c.CircuitBreaker.FailureRatio = 0 }, ErrConfigInvalid},
		{"failure_ratio_ignored_when_disabled", func(c *Config) {
			c.CircuitBreaker.Enabled = false
			c.CircuitBreaker.FailureRatio = 0
		}, nil},
		{"lead_time_too_long", func(c *Config) { c.Reminder.LeadTime = 8 * 24 * time.Hour }, ErrInvalidLeadTime},
		{"bad_schedule", func(c *Config) { c.Reminder.Schedule = "sometimes" }, ErrConfigInvalid},
		{"bad_log_level", func(c *Config) { c.Log.Level = "verbose" }, ErrConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewConfigManagerFromConfig(t *testing.T) {
	_, err := NewConfigManagerFromConfig(nil)
	assert.Error(t, err)

	bad := DefaultConfig()
	bad.Generator.RetryBudget = 0
	_, err = NewConfigManagerFromConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidRetryBudget)

	config := DefaultConfig()
	cm, err := NewConfigManagerFromConfig(config)
	require.NoError(t, err)
	assert.Same(t, config, cm.GetConfig())
}

func TestNewRedisClientFromConfig(t *testing.T) {
	config := DefaultRedisConfig()
	config.Addr = "redis.internal:6380"
	config.DB = 2

	client := NewRedisClientFromConfig(config)
	defer client.Close()

	assert.Equal(t, "redis.internal:6380", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)
	assert.Equal(t, DefaultRedisPoolSize, client.Options().PoolSize)

	fallback := NewRedisClientFromConfig(nil)
	defer fallback.Close()
	assert.Equal(t, DefaultRedisAddr, fallback.Options().Addr)
}

func BenchmarkConfig_Validation(b *testing.B) {
	config := DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = config.Validate()
	}
}
