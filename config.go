package luckbook

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 配置结构
type Config struct {
	Generator      *GeneratorConfig      `mapstructure:"generator"`
	Storage        *StorageConfig        `mapstructure:"storage"`
	Redis          *RedisConfig          `mapstructure:"redis"`
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Reminder       *ReminderConfig       `mapstructure:"reminder"`
	Log            *LogConfig            `mapstructure:"log"`
}

// Validate checks every section
func (c *Config) Validate() error {
	if c.Generator == nil || c.Storage == nil || c.Redis == nil ||
		c.CircuitBreaker == nil || c.Reminder == nil || c.Log == nil {
		return ErrConfigInvalid.WithDetails("missing configuration section")
	}
	if err := c.Generator.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if c.Storage.Backend == StorageBackendRedis {
		if c.Redis.Addr == "" {
			return ErrConfigInvalid.WithDetails("redis address is required")
		}
		if c.Redis.PoolSize <= 0 {
			return ErrConfigInvalid.WithDetailsf("redis.pool_size=%d must be positive", c.Redis.PoolSize)
		}
	}
	if c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.FailureRatio <= 0 || c.CircuitBreaker.FailureRatio > 1 {
			return ErrConfigInvalid.WithDetailsf("circuit_breaker.failure_ratio=%v must be in (0, 1]", c.CircuitBreaker.FailureRatio)
		}
	}
	if err := c.Reminder.Validate(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return ErrConfigInvalid.WithCause(err).WithDetailsf("log.level=%q", c.Log.Level)
	}
	return nil
}

// GeneratorConfig 号码生成配置
type GeneratorConfig struct {
	RetryBudget  int  `mapstructure:"retry_budget"`
	SecureRandom bool `mapstructure:"secure_random"`
}

// DefaultGeneratorConfig 返回默认号码生成配置
func DefaultGeneratorConfig() *GeneratorConfig {
	return &GeneratorConfig{RetryBudget: DefaultRetryBudget}
}

// Validate 验证号码生成配置
func (c *GeneratorConfig) Validate() error {
	if c.RetryBudget < 1 || c.RetryBudget > MaxRetryBudget {
		return ErrInvalidRetryBudget.WithDetailsf("retry_budget=%d", c.RetryBudget)
	}
	return nil
}

// StorageConfig 存储配置
type StorageConfig struct {
	Backend         string        `mapstructure:"backend"`
	GamesKey        string        `mapstructure:"games_key"`
	AppointmentsKey string        `mapstructure:"appointments_key"`
	SettingsKey     string        `mapstructure:"settings_key"`
	TTL             time.Duration `mapstructure:"ttl"`
	RetryAttempts   int           `mapstructure:"retry_attempts"`
	RetryInterval   time.Duration `mapstructure:"retry_interval"`
}

// DefaultStorageConfig 返回默认存储配置
func DefaultStorageConfig() *StorageConfig {
	return &StorageConfig{
		Backend:         StorageBackendMemory,
		GamesKey:        DefaultGamesKey,
		AppointmentsKey: DefaultAppointmentsKey,
		SettingsKey:     DefaultSettingsKey,
		TTL:             DefaultStoreTTL,
		RetryAttempts:   DefaultRetryAttempts,
		RetryInterval:   DefaultRetryInterval,
	}
}

// Validate 验证存储配置
func (c *StorageConfig) Validate() error {
	if c.Backend != StorageBackendMemory && c.Backend != StorageBackendRedis {
		return ErrConfigInvalid.WithDetailsf("storage.backend=%q must be memory or redis", c.Backend)
	}
	if c.GamesKey == "" || c.AppointmentsKey == "" || c.SettingsKey == "" {
		return ErrConfigInvalid.WithDetails("storage keys cannot be empty")
	}
	if c.GamesKey == c.AppointmentsKey || c.GamesKey == c.SettingsKey || c.AppointmentsKey == c.SettingsKey {
		return ErrConfigInvalid.WithDetails("storage keys must be distinct")
	}
	if c.TTL < 0 {
		return ErrConfigInvalid.WithDetailsf("storage.ttl=%v cannot be negative", c.TTL)
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > MaxRetryAttempts {
		return ErrInvalidRetryAttempts
	}
	if c.RetryInterval < 0 {
		return ErrInvalidRetryInterval
	}
	return nil
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int `mapstructure:"pool_size"`
	MinIdleConns int `mapstructure:"min_idle_conns"`
	MaxRetries   int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolTimeout  time.Duration `mapstructure:"pool_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MinIdleConns: DefaultRedisMinIdleConns,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		PoolTimeout:  DefaultRedisPoolTimeout,
	}
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// ReminderConfig 预约提醒配置
type ReminderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	LeadTime time.Duration `mapstructure:"lead_time"`
	Schedule string        `mapstructure:"schedule"`
}

// DefaultReminderConfig 返回默认提醒配置
func DefaultReminderConfig() *ReminderConfig {
	return &ReminderConfig{
		Enabled:  false,
		LeadTime: DefaultReminderLeadTime,
		Schedule: DefaultReminderSchedule,
	}
}

// Validate 验证提醒配置
func (c *ReminderConfig) Validate() error {
	if c.LeadTime < 0 || c.LeadTime > MaxReminderLeadTime {
		return ErrInvalidLeadTime.WithDetailsf("lead_time=%v", c.LeadTime)
	}
	if _, err := cron.ParseStandard(c.Schedule); err != nil {
		return ErrConfigInvalid.WithCause(err).WithDetailsf("reminder.schedule=%q", c.Schedule)
	}
	return nil
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() *LogConfig {
	return &LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat}
}

// DefaultConfig returns a fully populated default configuration
func DefaultConfig() *Config {
	return &Config{
		Generator:      DefaultGeneratorConfig(),
		Storage:        DefaultStorageConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Reminder:       DefaultReminderConfig(),
		Log:            DefaultLogConfig(),
	}
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	mu     sync.RWMutex
	config *Config
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/luckbook")
	v.AddConfigPath("$HOME/.luckbook")

	v.SetEnvPrefix("LUCKBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{viper: v}
}

// NewDefaultConfigManager 创建带默认配置的配置管理器
func NewDefaultConfigManager() *ConfigManager {
	cm := NewConfigManager()
	cm.setDefaults()
	cm.config = DefaultConfig()
	return cm
}

// NewConfigManagerFromConfig 从已有配置创建配置管理器
func NewConfigManagerFromConfig(config *Config) (*ConfigManager, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm := NewConfigManager()
	cm.config = config
	return cm, nil
}

// SetConfigFile reads from an explicit file instead of the search paths
func (cm *ConfigManager) SetConfigFile(path string) {
	cm.viper.SetConfigFile(path)
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	cm.setDefaults()

	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认配置
	}

	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	cm.viper.SetDefault("generator.retry_budget", DefaultRetryBudget)
	cm.viper.SetDefault("generator.secure_random", false)

	cm.viper.SetDefault("storage.backend", StorageBackendMemory)
	cm.viper.SetDefault("storage.games_key", DefaultGamesKey)
	cm.viper.SetDefault("storage.appointments_key", DefaultAppointmentsKey)
	cm.viper.SetDefault("storage.settings_key", DefaultSettingsKey)
	cm.viper.SetDefault("storage.ttl", "0s")
	cm.viper.SetDefault("storage.retry_attempts", DefaultRetryAttempts)
	cm.viper.SetDefault("storage.retry_interval", "100ms")

	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.min_idle_conns", DefaultRedisMinIdleConns)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")
	cm.viper.SetDefault("redis.pool_timeout", "4s")

	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)

	cm.viper.SetDefault("reminder.enabled", false)
	cm.viper.SetDefault("reminder.lead_time", "1h")
	cm.viper.SetDefault("reminder.schedule", DefaultReminderSchedule)

	cm.viper.SetDefault("log.level", DefaultLogLevel)
	cm.viper.SetDefault("log.format", DefaultLogFormat)
}

// WatchConfig 监听配置变化
func (cm *ConfigManager) WatchConfig(callback func(*Config)) {
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		config := &Config{}
		if err := cm.viper.Unmarshal(config); err != nil {
			return
		}
		if err := config.Validate(); err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()

		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.config
}

// setConfig replaces the current configuration without validation
func (cm *ConfigManager) setConfig(config *Config) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.config = config
}

// ReloadConfig 重新加载配置
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }
