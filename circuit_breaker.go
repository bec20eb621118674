package luckbook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerStore 带熔断器的存储
type CircuitBreakerStore struct {
	store Store

	mu      sync.RWMutex
	breaker *gobreaker.CircuitBreaker
	logger  Logger
	config  *CircuitBreakerConfig
}

// NewCircuitBreakerStore wraps store with a breaker. A disabled config passes calls through.
func NewCircuitBreakerStore(store Store, config *CircuitBreakerConfig, logger Logger) *CircuitBreakerStore {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	if logger == nil {
		logger = NewSilentLogger()
	}

	s := &CircuitBreakerStore{
		store:  store,
		logger: logger,
		config: config,
	}
	if config.Enabled {
		s.breaker = gobreaker.NewCircuitBreaker(s.settings())
	}
	return s
}

// Unwrap returns the wrapped store
func (s *CircuitBreakerStore) Unwrap() Store { return s.store }

func (s *CircuitBreakerStore) settings() gobreaker.Settings {
	config := s.config
	return gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 当请求数达到最小要求且失败率超过阈值时触发熔断
			return counts.Requests >= config.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// 参数错误不代表后端故障
			return err == nil || errors.Is(err, ErrInvalidParameters) || errors.Is(err, ErrSerializationFailed)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if config.OnStateChange {
				s.logger.Warn("Circuit breaker '%s' state changed from %s to %s", name, from, to)
			}
		},
	}
}

// executeWithBreaker 使用熔断器执行操作
func (s *CircuitBreakerStore) executeWithBreaker(operation func() (any, error)) (any, error) {
	s.mu.RLock()
	breaker := s.breaker
	s.mu.RUnlock()

	if breaker == nil {
		return operation()
	}

	result, err := breaker.Execute(operation)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			return nil, ErrCircuitBreakerOpen.WithDetails("circuit breaker is open, requests are being rejected")
		}
		if errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitBreakerOpen.WithDetails("too many requests, circuit breaker is half-open")
		}
	}

	return result, err
}

// Load 加载集合
func (s *CircuitBreakerStore) Load(ctx context.Context, key string) ([]byte, error) {
	result, err := s.executeWithBreaker(func() (any, error) {
		return s.store.Load(ctx, key)
	})
	if err != nil {
		return nil, err
	}

	data, _ := result.([]byte)
	return data, nil
}

// Save 保存集合
func (s *CircuitBreakerStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.executeWithBreaker(func() (any, error) {
		return nil, s.store.Save(ctx, key, data)
	})
	return err
}

// Delete 删除集合
func (s *CircuitBreakerStore) Delete(ctx context.Context, key string) error {
	_, err := s.executeWithBreaker(func() (any, error) {
		return nil, s.store.Delete(ctx, key)
	})
	return err
}

// State 获取熔断器状态
func (s *CircuitBreakerStore) State() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.breaker == nil {
		return "disabled"
	}

	switch s.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts 获取熔断器统计信息
func (s *CircuitBreakerStore) Counts() gobreaker.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.breaker == nil {
		return gobreaker.Counts{}
	}
	return s.breaker.Counts()
}

// Reset recreates the breaker; gobreaker has no reset of its own
func (s *CircuitBreakerStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.breaker == nil {
		return
	}
	s.breaker = gobreaker.NewCircuitBreaker(s.settings())
	s.logger.Info("Circuit breaker '%s' has been reset", s.config.Name)
}

// CircuitBreakerMetrics 熔断器指标收集器
type CircuitBreakerMetrics struct {
	store *CircuitBreakerStore
}

// NewCircuitBreakerMetrics 创建熔断器指标收集器
func NewCircuitBreakerMetrics(store *CircuitBreakerStore) *CircuitBreakerMetrics {
	return &CircuitBreakerMetrics{store: store}
}

// CollectMetrics 收集指标
func (m *CircuitBreakerMetrics) CollectMetrics() map[string]any {
	config := m.store.config
	metrics := map[string]any{
		"circuit_breaker_enabled": config.Enabled,
		"timestamp":               time.Now().Unix(),
	}

	if !config.Enabled {
		metrics["circuit_breaker_state"] = "disabled"
		return metrics
	}

	state := m.store.State()
	counts := m.store.Counts()

	metrics["circuit_breaker_state"] = state
	metrics["circuit_breaker_state_numeric"] = stateToNumeric(state)
	metrics["circuit_breaker_requests_total"] = counts.Requests
	metrics["circuit_breaker_successes_total"] = counts.TotalSuccesses
	metrics["circuit_breaker_failures_total"] = counts.TotalFailures
	metrics["circuit_breaker_consecutive_successes"] = counts.ConsecutiveSuccesses
	metrics["circuit_breaker_consecutive_failures"] = counts.ConsecutiveFailures

	if counts.Requests > 0 {
		metrics["circuit_breaker_failure_rate"] = float64(counts.TotalFailures) / float64(counts.Requests)
	} else {
		metrics["circuit_breaker_failure_rate"] = 0.0
	}

	metrics["circuit_breaker_min_requests"] = config.MinRequests
	metrics["circuit_breaker_failure_ratio_threshold"] = config.FailureRatio
	metrics["circuit_breaker_timeout_seconds"] = config.Timeout.Seconds()

	return metrics
}

// stateToNumeric 将状态转换为数值
func stateToNumeric(state string) int {
	switch state {
	case "closed":
		return 0
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return -1
	}
}
