package storage

import "sync"

// MemorySlot keeps values in process memory. Used for tests and throwaway runs.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailWrites makes Set return this error, for exercising save failures.
	FailWrites error
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

func (m *MemorySlot) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *MemorySlot) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySlot) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MemorySlot) Close() error { return nil }
