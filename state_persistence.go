package luckbook

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore persists each collection as one JSON blob in Redis
type RedisStore struct {
	redisClient    *redis.Client
	logger         Logger
	monitor        *PerformanceMonitor
	retryAttempts  int
	retryBaseDelay time.Duration
	ttl            time.Duration
}

// NewRedisStore creates a Redis store with default retry settings and no expiry
func NewRedisStore(redisClient *redis.Client, logger Logger) *RedisStore {
	return NewRedisStoreWithRetry(redisClient, logger, DefaultRetryAttempts, DefaultRetryInterval)
}

// NewRedisStoreWithRetry creates a Redis store with custom retry settings
func NewRedisStoreWithRetry(redisClient *redis.Client, logger Logger, retryAttempts int, retryDelay time.Duration) *RedisStore {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &RedisStore{
		redisClient:    redisClient,
		logger:         logger,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryDelay,
		ttl:            DefaultStoreTTL,
	}
}

// WithTTL makes every saved collection expire after ttl (0 keeps it forever)
func (s *RedisStore) WithTTL(ttl time.Duration) *RedisStore {
	s.ttl = ttl
	return s
}

// WithMonitor counts store failures on monitor
func (s *RedisStore) WithMonitor(monitor *PerformanceMonitor) *RedisStore {
	s.monitor = monitor
	return s
}

// Client returns the underlying Redis client
func (s *RedisStore) Client() *redis.Client { return s.redisClient }

// isRetriableRedisError checks if a Redis error is worth another attempt
func isRetriableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	return IsRetryableError(err)
}

// isTimeoutError reports deadline and network timeouts
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// executeWithRetry executes a Redis operation with retry logic using exponential backoff
func (s *RedisStore) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 0; attempt <= s.retryAttempts; attempt++ {
		if attempt > 0 {
			// baseDelay * 2^(attempt-1)
			delay := time.Duration(1<<(attempt-1)) * s.retryBaseDelay
			if delay > MaxRetryDelay {
				delay = MaxRetryDelay
			}

			s.logger.Debug("Retrying %s operation (attempt %d/%d) after %v backoff, total elapsed: %v",
				operation, attempt, s.retryAttempts, delay, time.Since(startTime))

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during retry for %s operation after %v (attempt %d/%d): %w",
					operation, time.Since(startTime), attempt, s.retryAttempts+1, ctx.Err())
			case <-time.After(delay):
			}
		}

		err := fn()
		if err == nil {
			if attempt > 0 {
				s.logger.Info("Completed %s operation after %d retries (total time: %v)",
					operation, attempt, time.Since(startTime))
			}
			return nil
		}

		lastErr = err
		if !isRetriableRedisError(err) {
			s.logger.Debug("Non-retriable error for %s operation (attempt %d): %v", operation, attempt+1, err)
			break
		}

		if attempt < s.retryAttempts {
			s.logger.Debug("Retriable error for %s operation (attempt %d/%d): %v",
				operation, attempt+1, s.retryAttempts+1, err)
		} else {
			s.logger.Error("Final retry attempt failed for %s operation (attempt %d/%d): %v",
				operation, attempt+1, s.retryAttempts+1, err)
		}
	}

	s.recordError()
	if isTimeoutError(lastErr) {
		lastErr = ErrRedisTimeout.WithCause(lastErr).WithOperation(operation)
	}
	return fmt.Errorf("%s operation failed after %v: %w", operation, time.Since(startTime), lastErr)
}

func (s *RedisStore) recordError() {
	if s.monitor != nil {
		s.monitor.RecordStoreError()
	}
}

// Load reads the blob under key. A missing key yields (nil, nil).
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidParameters.WithDetails("empty key provided for load operation")
	}

	var data []byte
	err := s.executeWithRetry(ctx, fmt.Sprintf("load[%s]", key), func() error {
		var err error
		data, err = s.redisClient.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data = nil
			return nil
		}
		return err
	})
	if err != nil {
		s.logger.Error("Failed to load collection from Redis: key=%s, error=%v", key, err)
		return nil, err
	}

	if len(data) == 0 {
		s.logger.Debug("No collection stored: key=%s", key)
		return nil, nil
	}
	if len(data) > MaxSerializationSize {
		s.recordError()
		return nil, ErrStoreCorrupted.WithDetailsf("key=%s, size %d exceeds %d bytes", key, len(data), MaxSerializationSize)
	}

	s.logger.Debug("Loaded collection: key=%s, size=%d bytes", key, len(data))
	return data, nil
}

// Save writes the blob under key with the store's TTL
func (s *RedisStore) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidParameters.WithDetails("empty key provided for save operation")
	}
	if len(data) > MaxSerializationSize {
		return ErrSerializationFailed.WithDetailsf("key=%s, size %d exceeds %d bytes", key, len(data), MaxSerializationSize)
	}

	err := s.executeWithRetry(ctx, fmt.Sprintf("save[%s]", key), func() error {
		return s.redisClient.Set(ctx, key, data, s.ttl).Err()
	})
	if err != nil {
		s.logger.Error("Failed to save collection to Redis: key=%s, size=%d bytes, ttl=%v, error=%v",
			key, len(data), s.ttl, err)
		return err
	}

	s.logger.Debug("Saved collection: key=%s, size=%d bytes, ttl=%v", key, len(data), s.ttl)
	return nil
}

// Delete removes key; a missing key is not an error
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidParameters.WithDetails("empty key provided for delete operation")
	}

	var removed int64
	err := s.executeWithRetry(ctx, fmt.Sprintf("delete[%s]", key), func() error {
		var err error
		removed, err = s.redisClient.Del(ctx, key).Result()
		return err
	})
	if err != nil {
		s.logger.Error("Failed to delete collection from Redis: key=%s, error=%v", key, err)
		return err
	}

	s.logger.Debug("Deleted collection: key=%s, keys_deleted=%d", key, removed)
	return nil
}
