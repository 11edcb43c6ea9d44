package cartstate

import (
	"context"
	"sync"

	"rocketshoes-cart/internal/domain"
)

// Memory keeps payloads in process memory. Nothing survives a restart.
type Memory struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{store: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.store[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (m *Memory) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	m.store[key] = append([]byte(nil), payload...)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
