// Package storage defines the durable key-value store the client keeps its
// session in. It plays the part a browser's localStorage plays for the web
// front-end: values survive process restarts and are removed only explicitly.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("storage: key not found")

// KeyValue is a durable string map.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Memory is an in-process KeyValue. It is used in tests and when the user
// opts out of persistence.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KeyValue = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove is a no-op for missing keys.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
