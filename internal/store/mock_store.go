package store

import (
	"github.com/evyataryagoni/ipinfo/internal/models"
)

// MockStore is a test double for the Store interface.
// It allows tests to control behavior and verify interactions.
type MockStore struct {
	// Data holds the mock cache contents (IP address -> result)
	Data map[string]*models.IPInfo

	// Track method calls for verification in tests
	GetCalls    []string
	SetCalls    []string
	CloseCalled bool

	// Control behavior for error scenarios
	GetError   error
	SetError   error
	CloseError error
}

// NewMockStore creates an empty mock cache.
func NewMockStore() *MockStore {
	return &MockStore{
		Data:     map[string]*models.IPInfo{},
		GetCalls: []string{},
		SetCalls: []string{},
	}
}

// Get implements the Store interface.
// Tracks calls and returns configured data or errors.
func (m *MockStore) Get(ip string) (*models.IPInfo, error) {
	m.GetCalls = append(m.GetCalls, ip)

	if m.GetError != nil {
		return nil, m.GetError
	}

	info, exists := m.Data[ip]
	if !exists {
		return nil, ErrCacheMiss
	}

	return info, nil
}

// Set implements the Store interface.
// Tracks calls and stores the entry unless configured to fail.
func (m *MockStore) Set(ip string, info *models.IPInfo) error {
	m.SetCalls = append(m.SetCalls, ip)

	if m.SetError != nil {
		return m.SetError
	}

	m.Data[ip] = info
	return nil
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
