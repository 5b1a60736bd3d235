package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"stockresearch/internal/auth"
	"stockresearch/internal/errors"
	"stockresearch/internal/model"
)

const (
	// ChallengeTTL is how long a login code stays valid.
	ChallengeTTL = 10 * time.Minute
	// expiredChallengeGrace keeps expired challenges around so a late verify
	// reports expiry instead of a missing login.
	expiredChallengeGrace = time.Hour

	defaultCodeHashCost = 10
)

// AuthService handles one-time code login and sessions.
type AuthService interface {
	// RequestChallenge issues a fresh code for email, replacing any pending one.
	RequestChallenge(ctx context.Context, email string) error
	// VerifyChallenge consumes the pending code and opens a session. It returns
	// the normalized email and the session token for the cookie.
	VerifyChallenge(ctx context.Context, email, code string) (verifiedEmail, sessionToken string, err error)
	// ResolveSession returns the session behind token or errors.ErrAuthRequired.
	ResolveSession(ctx context.Context, sessionToken string) (*model.Session, error)
	// EndSession destroys the session behind token. Unknown tokens are ignored.
	EndSession(ctx context.Context, sessionToken string) error
}

// AuthOption configures the auth service.
type AuthOption func(*authService)

// WithClock overrides the clock used for challenge expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

// WithChallengeTTL overrides the login code lifetime.
func WithChallengeTTL(ttl time.Duration) AuthOption {
	return func(s *authService) { s.challengeTTL = ttl }
}

// WithSessionTTL overrides the session lifetime.
func WithSessionTTL(ttl time.Duration) AuthOption {
	return func(s *authService) { s.sessionTTL = ttl }
}

// WithCodeHashCost overrides the bcrypt cost used for stored codes.
func WithCodeHashCost(cost int) AuthOption {
	return func(s *authService) { s.codeHashCost = cost }
}

type authService struct {
	challenges   auth.ChallengeStoreInterface
	sessions     auth.SessionStoreInterface
	jwtService   *auth.JWTService
	sender       auth.CodeSender
	now          func() time.Time
	challengeTTL time.Duration
	sessionTTL   time.Duration
	codeHashCost int
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	challenges auth.ChallengeStoreInterface,
	sessions auth.SessionStoreInterface,
	jwtService *auth.JWTService,
	sender auth.CodeSender,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		challenges:   challenges,
		sessions:     sessions,
		jwtService:   jwtService,
		sender:       sender,
		now:          time.Now,
		challengeTTL: ChallengeTTL,
		sessionTTL:   auth.SessionTokenExpiry,
		codeHashCost: defaultCodeHashCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestChallenge stores a hashed code with an expiry and hands the code to
// the sender. The code itself is never returned.
func (s *authService) RequestChallenge(ctx context.Context, email string) error {
	email = auth.NormalizeEmail(email)
	if email == "" {
		return errors.ErrValidation
	}

	code, err := auth.GenerateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.codeHashCost)
	if err != nil {
		return fmt.Errorf("hash code: %w", err)
	}

	challenge := &model.LoginChallenge{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(s.challengeTTL),
	}
	if err := s.challenges.Put(ctx, challenge, s.challengeTTL+expiredChallengeGrace); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}

	if err := s.sender.SendCode(ctx, email, code); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	return nil
}

// VerifyChallenge checks code against the pending challenge for email.
//
// Two concurrent verifies with the correct code may both pass the read before
// either delete; each then opens its own session.
func (s *authService) VerifyChallenge(ctx context.Context, email, code string) (string, string, error) {
	email = auth.NormalizeEmail(email)
	code = strings.TrimSpace(code)

	pending, err := s.challenges.Get(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("load challenge: %w", err)
	}
	if pending == nil {
		return "", "", errors.ErrChallengeNotFound
	}

	if pending.Expired(s.now()) {
		if _, err := s.challenges.DeleteIfUnchanged(ctx, pending); err != nil {
			return "", "", fmt.Errorf("delete expired challenge: %w", err)
		}
		return "", "", errors.ErrChallengeExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(code)) != nil {
		return "", "", errors.ErrChallengeMismatch
	}

	if err := s.challenges.Delete(ctx, email); err != nil {
		return "", "", fmt.Errorf("consume challenge: %w", err)
	}

	session := &model.Session{
		ID:        auth.NewSessionID(),
		Email:     email,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session, s.sessionTTL); err != nil {
		return "", "", fmt.Errorf("store session: %w", err)
	}

	token, err := s.jwtService.GenerateSessionToken(session.ID, email, s.sessionTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}
	return email, token, nil
}

// ResolveSession validates the token and loads its server-side session.
func (s *authService) ResolveSession(ctx context.Context, sessionToken string) (*model.Session, error) {
	if sessionToken == "" {
		return nil, errors.ErrAuthRequired
	}

	claims, err := s.jwtService.ValidateToken(sessionToken)
	if err != nil {
		return nil, errors.ErrAuthRequired
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Email != claims.Email {
		return nil, errors.ErrAuthRequired
	}
	return session, nil
}

// EndSession deletes the session named by the token, if any.
func (s *authService) EndSession(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	sessionID, err := s.jwtService.ExtractSessionID(sessionToken)
	if err != nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
