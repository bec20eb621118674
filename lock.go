package luckbook

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// 加锁用 SET NX, 释放用 Lua 脚本, 只有持有者才能删除锁
const releaseLockScript = `
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`

// RedisLocker is a Locker backed by Redis keys under LockKeyPrefix
type RedisLocker struct {
	redisClient *redis.Client
	logger      Logger
}

// NewRedisLocker creates a locker over redisClient
func NewRedisLocker(redisClient *redis.Client, logger Logger) *RedisLocker {
	if logger == nil {
		logger = NewSilentLogger()
	}
	return &RedisLocker{redisClient: redisClient, logger: logger}
}

// TryAcquireLock makes a single SET NX attempt
func (l *RedisLocker) TryAcquireLock(ctx context.Context, lockKey, owner string, expiration time.Duration) (bool, error) {
	if lockKey == "" || owner == "" {
		return false, ErrInvalidParameters.WithDetails("lock key and owner are required")
	}
	if expiration <= 0 {
		expiration = DefaultLockExpiration
	}

	acquired, err := l.redisClient.SetNX(ctx, LockKeyPrefix+lockKey, owner, expiration).Result()
	if err != nil {
		return false, ErrRedisConnectionFailed.WithCause(err).WithDetailsf("lock=%s", lockKey)
	}
	return acquired, nil
}

// ReleaseLock deletes the lock if owner still holds it. It reports false when
// the lock had already expired or been taken over.
func (l *RedisLocker) ReleaseLock(ctx context.Context, lockKey, owner string) (bool, error) {
	if lockKey == "" || owner == "" {
		return false, ErrInvalidParameters.WithDetails("lock key and owner are required")
	}

	result, err := l.redisClient.Eval(ctx, releaseLockScript, []string{LockKeyPrefix + lockKey}, owner).Int64()
	if err != nil {
		return false, ErrRedisConnectionFailed.WithCause(err).WithDetailsf("lock=%s", lockKey)
	}
	if result != 1 {
		l.logger.Warn("Lock %s was no longer held by %s on release", lockKey, owner)
		return false, nil
	}
	return true, nil
}
