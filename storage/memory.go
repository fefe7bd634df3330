package storage

import (
	"sync"

	"nameit/provider"
)

// MemoryStore is an in-process Store, used by tests and dry runs.
type MemoryStore struct {
	mu      sync.Mutex
	configs map[string]provider.Config
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{configs: make(map[string]provider.Config)}
}

func (m *MemoryStore) Load(key string) (provider.Config, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.configs[key]
	return cfg, ok, nil
}

func (m *MemoryStore) Save(key string, cfg provider.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[key] = cfg
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.configs, key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
