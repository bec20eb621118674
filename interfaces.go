package luckbook

import (
	"context"
	"time"
)

// ProgressCallback receives multi-set generation progress after each accepted set
type ProgressCallback func(completed, total int, current GeneratedSet)

// RandomGenerator is the uniform integer source used to sample sets
type RandomGenerator interface {
	// GenerateInRange returns an integer in [min, max] (inclusive)
	GenerateInRange(min, max int) (int, error)
}

// Store persists whole collections, one serialized blob per key.
// Load returns (nil, nil) when the key is absent.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Locker is a lease-style mutual exclusion shared between processes
type Locker interface {
	TryAcquireLock(ctx context.Context, lockKey, owner string, expiration time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, lockKey, owner string) (bool, error)
}

// Notifier delivers an appointment reminder
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, reminder Reminder) error

// Notify calls f(ctx, reminder)
func (f NotifierFunc) Notify(ctx context.Context, reminder Reminder) error {
	return f(ctx, reminder)
}

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
