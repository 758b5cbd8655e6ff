package kvstore

import (
	"context"
	"errors"
	"sync"
)

var _ Backend = (*MemoryBackend)(nil)

// MemoryBackend keeps everything in process memory. With a non-zero quota it
// behaves like browser storage and refuses writes once keys plus values exceed it.
type MemoryBackend struct {
	mutex sync.Mutex
	items map[string]string
	quota int
	used  int
}

func NewMemoryBackend(quotaBytes int) *MemoryBackend {
	return &MemoryBackend{
		items: make(map[string]string),
		quota: quotaBytes,
	}
}

func (m *MemoryBackend) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryBackend) SetItem(_ context.Context, key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.set(key, value)
}

func (m *MemoryBackend) RemoveItem(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.items, key)
	}
	return nil
}

func (m *MemoryBackend) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	current, exists := m.items[key]
	next, err := fn(current, exists)
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	return m.set(key, next)
}

// Used returns the number of bytes taken by keys and values.
func (m *MemoryBackend) Used() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.used
}

func (m *MemoryBackend) set(key, value string) error {
	newUsed := m.used + len(key) + len(value)
	if old, ok := m.items[key]; ok {
		newUsed -= len(key) + len(old)
	}

	if m.quota > 0 && newUsed > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used = newUsed
	return nil
}
