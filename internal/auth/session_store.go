package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockresearch/internal/cache"
	"stockresearch/internal/model"
)

const sessionKeyPrefix = "session:"

// SessionStoreInterface defines the interface for server-side session storage.
type SessionStoreInterface interface {
	Create(ctx context.Context, session *model.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionStore handles storage and retrieval of sessions in a cache.Store.
type SessionStore struct {
	store cache.Store
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(store cache.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Create stores a session with TTL.
func (s *SessionStore) Create(ctx context.Context, session *model.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.store.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl)
}

// Get returns the session or nil if it does not exist or has expired.
func (s *SessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.store.Get(ctx, sessionKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if session.Email == "" {
		return nil, fmt.Errorf("invalid email in session data")
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, sessionKeyPrefix+id)
}
