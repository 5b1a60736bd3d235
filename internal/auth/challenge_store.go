package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stockresearch/internal/cache"
	"stockresearch/internal/model"
)

const challengeKeyPrefix = "login_challenge:"

// PendingChallenge is a challenge as read back from the store.
type PendingChallenge struct {
	model.LoginChallenge
	raw []byte
}

// ChallengeStoreInterface defines storage of pending login challenges,
// at most one per email.
type ChallengeStoreInterface interface {
	Put(ctx context.Context, challenge *model.LoginChallenge, ttl time.Duration) error
	Get(ctx context.Context, email string) (*PendingChallenge, error)
	Delete(ctx context.Context, email string) error
	DeleteIfUnchanged(ctx context.Context, pending *PendingChallenge) (bool, error)
}

// ChallengeStore keeps login challenges in a cache.Store.
type ChallengeStore struct {
	store cache.Store
}

var _ ChallengeStoreInterface = (*ChallengeStore)(nil)

// NewChallengeStore creates a new challenge store.
func NewChallengeStore(store cache.Store) *ChallengeStore {
	return &ChallengeStore{store: store}
}

// Put stores the challenge, replacing any prior challenge for the same email.
func (s *ChallengeStore) Put(ctx context.Context, challenge *model.LoginChallenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}
	return s.store.Set(ctx, challengeKeyPrefix+challenge.Email, payload, ttl)
}

// Get returns the pending challenge for email, or nil if there is none.
func (s *ChallengeStore) Get(ctx context.Context, email string) (*PendingChallenge, error) {
	data, err := s.store.Get(ctx, challengeKeyPrefix+email)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	pending := &PendingChallenge{raw: data}
	if err := json.Unmarshal(data, &pending.LoginChallenge); err != nil {
		return nil, fmt.Errorf("unmarshal challenge: %w", err)
	}
	return pending, nil
}

// Delete removes the challenge for email.
func (s *ChallengeStore) Delete(ctx context.Context, email string) error {
	return s.store.Delete(ctx, challengeKeyPrefix+email)
}

// DeleteIfUnchanged removes pending only if it has not been superseded since
// it was read.
func (s *ChallengeStore) DeleteIfUnchanged(ctx context.Context, pending *PendingChallenge) (bool, error) {
	return s.store.CompareAndDelete(ctx, challengeKeyPrefix+pending.Email, pending.raw)
}
