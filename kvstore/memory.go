package kvstore

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process backend, used by tests and as a scratch store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]json.RawMessage)}
}

func (m *Memory) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[key]
	if !ok {
		return nil, ErrNoDocument
	}
	return raw, nil
}

func (m *Memory) Set(_ context.Context, key string, value json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// keep our own copy, callers may reuse the buffer
	m.docs[key] = append(json.RawMessage(nil), value...)
	return nil
}
