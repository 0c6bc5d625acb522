package storage

import (
	"sync"
)

// Scope selects the lifetime of a stored value.
type Scope string

const (
	// Durable values survive restarts (roster, scores, catalog, HP, budgets).
	Durable Scope = "durable"
	// Session values live for one session (current character, battle state).
	Session Scope = "session"
)

// Store is the key-value capability the engine persists through.
type Store interface {
	Get(scope Scope, key string) (string, bool, error)
	Set(scope Scope, key, value string) error
	Remove(scope Scope, key string) error
	// ClearSession drops every session-scoped value.
	ClearSession() error
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu   sync.Mutex
	data map[Scope]map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[Scope]map[string]string{}}
}

func (m *MemoryStore) Get(scope Scope, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[scope][key]
	return v, ok, nil
}

func (m *MemoryStore) Set(scope Scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[scope] == nil {
		m.data[scope] = map[string]string{}
	}
	m.data[scope][key] = value
	return nil
}

func (m *MemoryStore) Remove(scope Scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[scope], key)
	return nil
}

func (m *MemoryStore) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, Session)
	return nil
}
