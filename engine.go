package luckbook

import (
	"context"
	"sync"
)

// Engine wires the generator, the aggregator and the record books over one Store
type Engine struct {
	store         Store
	configManager *ConfigManager
	logger        Logger
	mu            sync.RWMutex // 保护配置和generator的并发访问

	generator    *NumberGenerator
	aggregator   *FinancialAggregator
	games        *GameBook
	appointments *AppointmentBook
	settings     *SettingsBook

	performanceMonitor *PerformanceMonitor
	locker             Locker
}

// NewEngine creates an engine over store with the default configuration
func NewEngine(store Store) (*Engine, error) {
	return NewEngineWithConfigAndLogger(store, NewDefaultConfigManager(), NewDefaultLogger())
}

// NewEngineWithConfig creates an engine with custom configuration
func NewEngineWithConfig(store Store, cm *ConfigManager) (*Engine, error) {
	return NewEngineWithConfigAndLogger(store, cm, NewLoggerFromConfig(cm.GetConfig().Log))
}

// NewEngineWithLogger creates an engine with custom logger
func NewEngineWithLogger(store Store, logger Logger) (*Engine, error) {
	return NewEngineWithConfigAndLogger(store, NewDefaultConfigManager(), logger)
}

// NewEngineWithConfigAndLogger creates an engine with custom configuration and logger
func NewEngineWithConfigAndLogger(store Store, configManager *ConfigManager, logger Logger) (*Engine, error) {
	return newEngine(store, configManager, logger, NewPerformanceMonitor())
}

// NewEngineFromConfig builds the configured store and an engine over it, sharing one monitor
func NewEngineFromConfig(configManager *ConfigManager, logger Logger) (*Engine, error) {
	if configManager == nil {
		return nil, ErrInvalidParameters.WithDetails("configuration is required")
	}
	if logger == nil {
		logger = NewLoggerFromConfig(configManager.GetConfig().Log)
	}

	monitor := NewPerformanceMonitor()
	store, err := NewStoreFromConfig(configManager.GetConfig(), logger, monitor)
	if err != nil {
		return nil, err
	}
	engine, err := newEngine(store, configManager, logger, monitor)
	if err != nil {
		return nil, err
	}

	// 共享Redis时, 多个实例之间的提醒扫描需要互斥
	if redisStore, ok := unwrapStore(store).(*RedisStore); ok {
		engine.locker = NewRedisLocker(redisStore.Client(), logger)
	}
	return engine, nil
}

func unwrapStore(store Store) Store {
	for {
		wrapper, ok := store.(interface{ Unwrap() Store })
		if !ok {
			return store
		}
		store = wrapper.Unwrap()
	}
}

func newEngine(store Store, configManager *ConfigManager, logger Logger, monitor *PerformanceMonitor) (*Engine, error) {
	if store == nil || configManager == nil || configManager.GetConfig() == nil {
		return nil, ErrInvalidParameters.WithDetails("store and configuration are required")
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	config := configManager.GetConfig()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	generator, err := NewNumberGeneratorWithConfig(config.Generator, logger, monitor)
	if err != nil {
		return nil, err
	}

	aggregator := NewFinancialAggregator()
	return &Engine{
		store:         store,
		configManager: configManager,
		logger:        logger,

		generator:    generator,
		aggregator:   aggregator,
		games:        NewGameBookWithKey(store, config.Storage.GamesKey, logger),
		appointments: NewAppointmentBookWithKey(store, config.Storage.AppointmentsKey, logger).WithAggregator(aggregator),
		settings:     NewSettingsBookWithKey(store, config.Storage.SettingsKey),

		performanceMonitor: monitor,
	}, nil
}

// NewStoreFromConfig builds the configured backend, wrapped in a circuit breaker when enabled
func NewStoreFromConfig(config *Config, logger Logger, monitor *PerformanceMonitor) (Store, error) {
	if config == nil {
		return nil, ErrInvalidParameters.WithDetails("nil configuration")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var store Store
	switch config.Storage.Backend {
	case StorageBackendRedis:
		store = NewRedisStoreWithRetry(
			NewRedisClientFromConfig(config.Redis), logger,
			config.Storage.RetryAttempts, config.Storage.RetryInterval,
		).WithTTL(config.Storage.TTL).WithMonitor(monitor)
	default:
		store = NewMemoryStore()
	}

	if config.CircuitBreaker.Enabled {
		store = NewCircuitBreakerStore(store, config.CircuitBreaker, logger)
	}
	return store, nil
}

// Generate draws one set for the variant; count 0 means the variant default
func (e *Engine) Generate(variant VariantID, count int) (GeneratedSet, error) {
	return e.currentGenerator().Generate(variant, count)
}

// GenerateMany draws up to MaxGamesPerBatch distinct sets
func (e *Engine) GenerateMany(variant VariantID, quantity, count int) ([]GeneratedSet, error) {
	return e.currentGenerator().GenerateMany(variant, quantity, count)
}

// GenerateBatch is GenerateMany with progress reporting
func (e *Engine) GenerateBatch(variant VariantID, quantity, count int, progress ProgressCallback) (*BatchResult, error) {
	return e.currentGenerator().GenerateBatch(variant, quantity, count, progress)
}

// GenerateAndSave draws distinct sets and stores them as games in one write
func (e *Engine) GenerateAndSave(ctx context.Context, variant VariantID, quantity, count int) ([]Game, error) {
	sets, err := e.GenerateMany(variant, quantity, count)
	if err != nil {
		return nil, err
	}
	return e.games.SaveMany(ctx, variant, sets)
}

// Validate runs the set heuristics
func (e *Engine) Validate(numbers []int) ValidationResult {
	return Validate(numbers)
}

// SummarizeFinancials aggregates the given records for the period
func (e *Engine) SummarizeFinancials(records []AppointmentRecord, period ReportPeriod) (FinancialSummary, error) {
	return e.aggregator.Summarize(records, period)
}

// RankFrequencies ranks a frequency table
func (e *Engine) RankFrequencies(table []FrequencyEntry) FrequencyRanking {
	return RankFrequencies(table)
}

// Statistics ranks the frequency fixture of a variant
func (e *Engine) Statistics(variant VariantID) (FrequencyRanking, error) {
	return VariantStatistics(variant)
}

// Store returns the store the books write to
func (e *Engine) Store() Store { return e.store }

// Games returns the saved games book
func (e *Engine) Games() *GameBook { return e.games }

// Appointments returns the appointment book
func (e *Engine) Appointments() *AppointmentBook { return e.appointments }

// Settings returns the settings book
func (e *Engine) Settings() *SettingsBook { return e.settings }

// NewReminderScheduler wires a reminder scheduler over the engine's books
func (e *Engine) NewReminderScheduler(notifier Notifier) (*ReminderScheduler, error) {
	scheduler, err := NewReminderScheduler(e.appointments, e.settings, notifier, e.GetConfig().Reminder, e.logger)
	if err != nil {
		return nil, err
	}
	if e.locker != nil {
		scheduler.WithLocker(e.locker)
	}
	return scheduler, nil
}

// WithLocker sets the lock shared by reminder schedulers built from this engine
func (e *Engine) WithLocker(locker Locker) *Engine {
	e.locker = locker
	return e
}

// ClearAll drops saved games, appointments and settings. Each book holds its
// own lock while clearing, so a concurrent write lands before or after, never across.
func (e *Engine) ClearAll(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"games", e.games.Clear},
		{"appointments", e.appointments.Clear},
		{"settings", e.settings.Reset},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			e.logger.Error("ClearAll failed on %s: %v", step.name, err)
			return err
		}
	}
	e.logger.Info("All stored data cleared")
	return nil
}

func (e *Engine) currentGenerator() *NumberGenerator {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.generator
}

// GetConfig returns the current configuration
func (e *Engine) GetConfig() *Config {
	return e.configManager.GetConfig()
}

// UpdateConfig validates and applies a new generator configuration at runtime.
// Storage keys are fixed at construction.
func (e *Engine) UpdateConfig(newConfig *Config) error {
	e.logger.Debug("UpdateConfig called")

	if newConfig == nil {
		e.logger.Error("UpdateConfig failed: nil configuration")
		return ErrInvalidParameters
	}
	if err := newConfig.Validate(); err != nil {
		e.logger.Error("UpdateConfig validation failed: %v", err)
		return err
	}

	generator, err := NewNumberGeneratorWithConfig(newConfig.Generator, e.logger, e.performanceMonitor)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.configManager.setConfig(newConfig)
	e.generator = generator

	e.logger.Info("Configuration updated: RetryBudget=%d, SecureRandom=%v",
		newConfig.Generator.RetryBudget, newConfig.Generator.SecureRandom)
	return nil
}

// SetRetryBudget updates the generator's candidate budget at runtime
func (e *Engine) SetRetryBudget(budget int) error {
	e.logger.Debug("SetRetryBudget called with budget=%d", budget)

	if budget < 1 || budget > MaxRetryBudget {
		e.logger.Error("SetRetryBudget failed: invalid budget %d (must be between 1 and %d)", budget, MaxRetryBudget)
		return ErrInvalidRetryBudget
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := NewNumberGenerator(e.generator.rng).WithLogger(e.logger).WithMonitor(e.performanceMonitor)
	next.retryBudget = budget
	e.generator = next

	// 复制后替换, 不修改调用方持有的 *Config
	current := e.configManager.GetConfig()
	updated := *current
	generatorConfig := *current.Generator
	generatorConfig.RetryBudget = budget
	updated.Generator = &generatorConfig
	e.configManager.setConfig(&updated)

	e.logger.Info("Retry budget updated to %d", budget)
	return nil
}

// WithRandomGenerator swaps the random source, e.g. for replayable draws
func (e *Engine) WithRandomGenerator(rng RandomGenerator) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()

	budget := e.generator.RetryBudget()
	e.generator = NewNumberGenerator(rng).WithLogger(e.logger).WithMonitor(e.performanceMonitor)
	e.generator.retryBudget = budget
	return e
}

// GetPerformanceMetrics returns a snapshot of the engine's counters
func (e *Engine) GetPerformanceMetrics() PerformanceMetrics {
	return e.performanceMonitor.GetMetrics()
}

// ResetPerformanceMetrics 重置性能指标
func (e *Engine) ResetPerformanceMetrics() {
	e.performanceMonitor.ResetMetrics()
}

// EnablePerformanceMonitoring 启用性能监控
func (e *Engine) EnablePerformanceMonitoring() {
	e.performanceMonitor.Enable()
}

// DisablePerformanceMonitoring 禁用性能监控
func (e *Engine) DisablePerformanceMonitoring() {
	e.performanceMonitor.Disable()
}

// IsPerformanceMonitoringEnabled 检查是否启用了性能监控
func (e *Engine) IsPerformanceMonitoringEnabled() bool {
	return e.performanceMonitor.IsEnabled()
}

// PerformanceMonitor exposes the monitor, e.g. for NewMetricsCollector
func (e *Engine) PerformanceMonitor() *PerformanceMonitor {
	return e.performanceMonitor
}
