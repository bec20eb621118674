package luckbook

import (
	"context"
	"sync"
)

// Settings are the persisted user preferences
type Settings struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
}

// DefaultSettings has notifications on
func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: true}
}

// SettingsBook loads and updates Settings
type SettingsBook struct {
	store Store
	key   string
	mu    sync.Mutex
}

// NewSettingsBook creates a settings book over store under the default key
func NewSettingsBook(store Store) *SettingsBook {
	return NewSettingsBookWithKey(store, DefaultSettingsKey)
}

// NewSettingsBookWithKey creates a settings book over store under key
func NewSettingsBookWithKey(store Store, key string) *SettingsBook {
	return &SettingsBook{store: store, key: key}
}

// Load returns the stored settings or the defaults when nothing is stored
func (b *SettingsBook) Load(ctx context.Context) (Settings, error) {
	settings, ok, err := loadDocument[Settings](ctx, b.store, b.key)
	if err != nil {
		return Settings{}, err
	}
	if !ok {
		return DefaultSettings(), nil
	}
	return settings, nil
}

// SetNotifications stores the notification preference
func (b *SettingsBook) SetNotifications(ctx context.Context, enabled bool) (Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	settings, err := b.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	settings.NotificationsEnabled = enabled
	if err := saveDocument(ctx, b.store, b.key, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// ToggleNotifications flips the notification preference
func (b *SettingsBook) ToggleNotifications(ctx context.Context) (Settings, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	settings, err := b.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	settings.NotificationsEnabled = !settings.NotificationsEnabled
	if err := saveDocument(ctx, b.store, b.key, settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Reset drops the stored settings; Load returns the defaults afterwards
func (b *SettingsBook) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.Delete(ctx, b.key); err != nil {
		return ErrStoreSaveFailure.WithCause(err).WithDetailsf("key=%s", b.key)
	}
	return nil
}
