package luckbook

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// MemoryStore keeps collections in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load returns a copy of the blob stored under key, or nil when absent
func (s *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidParameters.WithDetails("empty key")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(data), nil
}

// Save replaces the blob under key
func (s *MemoryStore) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidParameters.WithDetails("empty key")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(data) > MaxSerializationSize {
		return ErrSerializationFailed.WithDetailsf("size %d exceeds %d bytes", len(data), MaxSerializationSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = slices.Clone(data)
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidParameters.WithDetails("empty key")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}

// loadCollection decodes the JSON array under key. An absent key is an empty collection.
func loadCollection[T any](ctx context.Context, store Store, key string) ([]T, error) {
	data, err := store.Load(ctx, key)
	if err != nil {
		return nil, ErrStoreLoadFailure.WithCause(err).WithDetailsf("key=%s", key)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, ErrStoreCorrupted.WithCause(ErrDeserializationFailed.WithCause(err)).
			WithDetailsf("key=%s, size=%d bytes", key, len(data))
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// saveCollection encodes items as one JSON array and writes it under key
func saveCollection[T any](ctx context.Context, store Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetailsf("key=%s", key)
	}
	if err := store.Save(ctx, key, data); err != nil {
		return ErrStoreSaveFailure.WithCause(err).WithDetailsf("key=%s, size=%d bytes", key, len(data))
	}
	return nil
}

// loadDocument decodes a single JSON object under key; ok is false when absent
func loadDocument[T any](ctx context.Context, store Store, key string) (doc T, ok bool, err error) {
	data, err := store.Load(ctx, key)
	if err != nil {
		return doc, false, ErrStoreLoadFailure.WithCause(err).WithDetailsf("key=%s", key)
	}
	if len(data) == 0 {
		return doc, false, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, false, ErrStoreCorrupted.WithCause(ErrDeserializationFailed.WithCause(err)).WithDetailsf("key=%s", key)
	}
	return doc, true, nil
}

// saveDocument encodes doc as JSON under key
func saveDocument[T any](ctx context.Context, store Store, key string, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return ErrSerializationFailed.WithCause(err).WithDetailsf("key=%s", key)
	}
	if err := store.Save(ctx, key, data); err != nil {
		return ErrStoreSaveFailure.WithCause(err).WithDetailsf("key=%s", key)
	}
	return nil
}
