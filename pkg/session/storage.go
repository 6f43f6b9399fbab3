package session

import (
	"context"
	"sync"
)

// Persisted credential keys. Absent key means no value; the literal string
// "null" is never written.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyTenantID     = "tenant_id"
)

// Storage is a client-local key/value store for credential material.
// Implementations must treat a missing key as (value="", ok=false, err=nil).
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStorage is an in-process Storage, used in tests and as the fallback
// when no persistence is configured.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the stored value for key
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close is a no-op
func (m *MemoryStorage) Close() error {
	return nil
}
