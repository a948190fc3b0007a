package internal

import (
	"fmt"
	"sync"
)

// Slot is a persistent key/value cell, the local-storage analogue the log
// lives in. Update must apply fn atomically: no other writer may observe or
// change the value between the read and the write.
type Slot interface {
	Get(key string) (value []byte, found bool, err error)
	Update(key string, fn func(current []byte, found bool) ([]byte, error)) error
	Delete(key string) error
	Close() error
}

// Slot backend names accepted by OpenSlot
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// OpenSlot opens the named backend at path (ignored for memory)
func OpenSlot(backend, path string) (Slot, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLiteSlot(path)
	case BackendBolt:
		return OpenBoltSlot(path)
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: sqlite, bolt, memory)", backend)
	}
}

// MemorySlot keeps values in process memory
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemorySlot creates an empty MemorySlot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (m *MemorySlot) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a raw value, bypassing any encoding
func (m *MemorySlot) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
}

// Update applies fn under the slot lock
func (m *MemorySlot) Update(key string, fn func([]byte, bool) ([]byte, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.values[key]
	next, err := fn(append([]byte(nil), current...), ok)
	if err != nil {
		return err
	}
	m.values[key] = append([]byte(nil), next...)
	return nil
}

// Delete removes the key; deleting a missing key is not an error
func (m *MemorySlot) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close is a no-op
func (m *MemorySlot) Close() error {
	return nil
}
