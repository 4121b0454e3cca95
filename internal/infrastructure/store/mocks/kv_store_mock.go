package mocks

import (
	"context"
	"sync"
)

// MockKeyValueStore is a mock implementation of store.KeyValueStore for testing
type MockKeyValueStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	GetCalls []GetCall
	SetCalls []SetCall
	GetErr   error
	SetErr   error
}

// GetCall records parameters passed to Get
type GetCall struct {
	Key string
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

// NewMockKeyValueStore creates a new MockKeyValueStore
func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		data:     make(map[string][]byte),
		GetCalls: make([]GetCall, 0),
		SetCalls: make([]SetCall, 0),
	}
}

// Get returns the stored value
func (m *MockKeyValueStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, GetCall{Key: key})

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

// Set stores the value unless SetErr is configured
func (m *MockKeyValueStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{
		Key:   key,
		Value: append([]byte(nil), value...),
	})

	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Reset clears all data and recorded calls
func (m *MockKeyValueStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.GetCalls = make([]GetCall, 0)
	m.SetCalls = make([]SetCall, 0)
	m.GetErr = nil
	m.SetErr = nil
}

// SetData sets data directly for testing
func (m *MockKeyValueStore) SetData(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// GetData gets data directly for testing (without recording the call)
func (m *MockKeyValueStore) GetData(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}
