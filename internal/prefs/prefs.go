// Package prefs persists per-user UI preferences as opaque JSON values under string keys.
package prefs

import (
	"context"
	"fmt"
	"sync"
)

// Store is the durable key/value backend behind the customization and theme stores.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

// Keys names the three independently stored preference aggregates of one user.
type Keys struct {
	Customization string
	Overrides     string
	Theme         string
}

// UserKeys returns the keys for userID.
func UserKeys(userID uint) Keys {
	prefix := fmt.Sprintf("user:%d:", userID)
	return Keys{
		Customization: prefix + "resume-customization",
		Overrides:     prefix + "resume-customization-overrides",
		Theme:         prefix + "resume-theme-preference",
	}
}

// Memory is an in-process Store used by tests and single-user tooling.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
