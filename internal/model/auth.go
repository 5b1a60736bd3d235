package model

import "time"

// LoginChallenge is a pending one-time code for an email.
// Only a bcrypt hash of the code is kept.
type LoginChallenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge can no longer authenticate at now.
func (c *LoginChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Session is a server-side authenticated session.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStatus is the answer to "who am I".
type SessionStatus struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}
