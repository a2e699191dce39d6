package auth

import "sync"

// MockStore implements CredentialStore for testing purposes
type MockStore struct {
	name string
	key  string
	mu   sync.RWMutex

	// Error injection for testing
	GetError    error
	SetError    error
	DeleteError error
}

// NewMockStore creates a new mock credential store
func NewMockStore(name string) *MockStore {
	return &MockStore{name: name}
}

func (m *MockStore) Name() string { return m.name }

func (m *MockStore) Get() (string, error) {
	if m.GetError != nil {
		return "", m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.key == "" {
		return "", ErrCredentialsNotFound
	}
	return m.key, nil
}

func (m *MockStore) Set(apiKey string) error {
	if m.SetError != nil {
		return m.SetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if apiKey == "" {
		return ErrInvalidCredentials
	}
	m.key = apiKey
	return nil
}

func (m *MockStore) Delete() error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key == "" {
		return ErrCredentialsNotFound
	}
	m.key = ""
	return nil
}
