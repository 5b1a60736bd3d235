package storage

import (
	"context"
	"encoding/json"
)

const (
	sessionKey      = "stockresearch:session"
	pendingEmailKey = "stockresearch:pending-email"
)

// SessionState persists the session cookie and the email awaiting a code
// between client runs.
type SessionState struct {
	store Store
}

// NewSessionState creates session state over store.
func NewSessionState(store Store) *SessionState {
	return &SessionState{store: store}
}

// Cookie returns the saved session cookie, or "".
func (s *SessionState) Cookie(ctx context.Context) (string, error) {
	return s.getString(ctx, sessionKey)
}

// SetCookie saves the session cookie; an empty value clears it.
func (s *SessionState) SetCookie(ctx context.Context, value string) error {
	return s.setString(ctx, sessionKey, value)
}

// PendingEmail returns the email of the last login request, or "".
func (s *SessionState) PendingEmail(ctx context.Context) (string, error) {
	return s.getString(ctx, pendingEmailKey)
}

// SetPendingEmail records the email a login code was requested for.
func (s *SessionState) SetPendingEmail(ctx context.Context, email string) error {
	return s.setString(ctx, pendingEmailKey, email)
}

func (s *SessionState) getString(ctx context.Context, key string) (string, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil || raw == nil {
		return "", err
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", nil
	}
	return value, nil
}

func (s *SessionState) setString(ctx context.Context, key, value string) error {
	if value == "" {
		return s.store.Delete(ctx, key)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, raw)
}
