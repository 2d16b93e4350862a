// Package sessionstore holds the serialized auth session between calls, in
// process memory or in Redis.
package sessionstore

import (
	"context"
	"sync"

	"github.com/asistoya/shared-services/internal/core/ports"
)

type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ ports.SessionStorage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{items: make(map[string]string)}
}

func (m *Memory) GetItem(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

func (m *Memory) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *Memory) RemoveItem(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
