// Package session owns per-session user profiles. Each conversation session
// holds exactly one profile, keyed by a session ID minted by the hosting
// layer; nothing in the core ever touches another session's state.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/card-advisor/internal/types"
)

// ErrNotFound is returned when no profile exists for a session ID.
var ErrNotFound = errors.New("session not found")

// Store persists one profile per session. Implementations must be safe for
// concurrent use by independent sessions.
type Store interface {
	Get(ctx context.Context, sessionID string) (*types.UserProfile, error)
	Put(ctx context.Context, sessionID string, profile *types.UserProfile) error
	Delete(ctx context.Context, sessionID string) error
}

// NewSessionID mints a fresh session identifier.
func NewSessionID() string {
	return uuid.NewString()
}

// MemoryStore is an in-process Store for single-node deployments and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*types.UserProfile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*types.UserProfile)}
}

// Get returns a copy of the stored profile so callers can't mutate shared
// state without going back through Put.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*types.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return profile.Clone(), nil
}

// Put stores a copy of the profile under the session ID.
func (s *MemoryStore) Put(_ context.Context, sessionID string, profile *types.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[sessionID] = profile.Clone()
	return nil
}

// Delete removes the session's profile. Deleting an absent session is a
// no-op.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, sessionID)
	return nil
}
