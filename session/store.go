// Package session persists the opaque session token a successful login
// returns. The controller writes exactly one key and never clears it; Clear
// exists for hosts that implement logout themselves.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrTokenNotFound is returned by Load when no token is stored under the key.
var ErrTokenNotFound = errors.New("session token not found")

// ErrStoreUnavailable wraps backend failures of durable stores.
var ErrStoreUnavailable = errors.New("token store unavailable")

// TokenStore is the durable key-value slot the session token lives in.
type TokenStore interface {
	Save(ctx context.Context, key, token string) error
	Load(ctx context.Context, key string) (string, error)
	Clear(ctx context.Context, key string) error
}

// MemoryStore keeps tokens in process memory. It is the default store and the
// right choice when the host owns durable storage itself.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

// Save implements TokenStore.
func (s *MemoryStore) Save(_ context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = token
	return nil
}

// Load implements TokenStore.
func (s *MemoryStore) Load(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[key]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Clear implements TokenStore.
func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}
