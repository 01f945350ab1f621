// Package auth holds the process-wide bearer token.
//
// The token is loaded once at startup (Load), read synchronously by the API
// client before every request (Token), written at login (Set) and removed at
// logout or expiry (Clear). Expiry is never tracked locally: an expired token
// only shows up as an unauthorized response.
package auth

import (
	"fmt"
	"sync"
)

// TokenKey is the well-known key the token is persisted under.
const TokenKey = "authToken"

// Persister is the durable key/value backing of a Store. *state.DB satisfies it.
type Persister interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Store holds the bearer token in memory and writes changes through to its
// Persister. The zero value is not usable; use Load or NewMemoryStore.
type Store struct {
	mu      sync.RWMutex
	token   string
	persist Persister
}

// Load initializes a Store from the persisted token, if any.
func Load(p Persister) (*Store, error) {
	token, ok, err := p.Get(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("loading token: %w", err)
	}
	s := &Store{persist: p}
	if ok {
		s.token = token
	}
	return s, nil
}

// NewMemoryStore returns a Store that is never persisted. An empty token
// means absent.
func NewMemoryStore(token string) *Store {
	return &Store{token: token}
}

// Token returns the current token. ok is false when no token is held.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set replaces the token. An empty token is rejected; use Clear.
func (s *Store) Set(token string) error {
	if token == "" {
		return fmt.Errorf("empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist != nil {
		if err := s.persist.Put(TokenKey, token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
	}
	s.token = token
	return nil
}

// Clear drops the token from memory and from persistent storage.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	if s.persist != nil {
		if err := s.persist.Delete(TokenKey); err != nil {
			return fmt.Errorf("clearing token: %w", err)
		}
	}
	return nil
}
