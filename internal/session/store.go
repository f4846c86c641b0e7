// Package session holds the client-held proof of identity: the bearer token
// and the cached user record, plus the reader that classifies a request as
// authenticated or anonymous.
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nfrund/authportal/internal/domain"
)

// Keys under which the two session values are persisted. They are written
// together on sign-in and always cleared together.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the persisted key/value pair behind a session.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	// SetAll writes several values as one update.
	SetAll(values map[string]string) error
	// Clear removes both the token and the user record.
	Clear() error
}

// Save persists a freshly issued session.
func Save(s Store, token string, user *domain.UserSummary) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	return s.SetAll(map[string]string{KeyToken: token, KeyUser: string(raw)})
}

// SaveUser overwrites the cached user record, keeping the current token.
func SaveUser(s Store, user *domain.UserSummary) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}
	return s.Set(KeyUser, string(raw))
}

// Token returns the stored bearer token, or "" when there is none.
func Token(s Store) string {
	v, _ := s.Get(KeyToken)
	return v
}

// MemoryStore is a process-local Store, used by the CLI and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (m *MemoryStore) Set(key, value string) error {
	return m.SetAll(map[string]string{key: value})
}

func (m *MemoryStore) SetAll(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, KeyToken)
	delete(m.values, KeyUser)
	return nil
}

// Len reports how many values are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
