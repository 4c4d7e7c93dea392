package kvstore

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Store is the persistence adapter behind every local store. Load reports
// whether dest was populated: absent keys and corrupt blobs both return false
// so callers fall back to their defaults. Save failures are logged and
// swallowed, never returned.
type Store interface {
	Load(ctx context.Context, key string, dest any) bool
	Save(ctx context.Context, key string, value any)
	Delete(ctx context.Context, key string)
}

type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string, dest any) bool {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false
	}
	return true
}

func (m *Memory) Save(_ context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[kvstore] WARN: failed to serialize key %s: %v", key, err)
		return
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
}

func (m *Memory) Delete(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}
