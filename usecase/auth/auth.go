package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rew4n/smart-task-resource-manager/domain"
	"github.com/rew4n/smart-task-resource-manager/repository"
)

// UseCase is the session gate: it validates the configured demo credential
// and owns the lifecycle of session state. Every task operation sits behind
// Identity.
type UseCase struct {
	credential domain.Credential
	sessions   repository.SessionRepository
	jwtSecret  []byte
	ttl        time.Duration
	logger     *zap.Logger
}

func New(credential domain.Credential, sessions repository.SessionRepository, jwtSecret string, ttl time.Duration, logger *zap.Logger) *UseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		credential: credential,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		ttl:        ttl,
		logger:     logger,
	}
}

// Login validates the submitted pair against the configured credential.
// Any prior session referenced by priorToken is revoked first so no stale
// identity carries over. On failure no session is established.
func (uc *UseCase) Login(ctx context.Context, username, password, priorToken string) (*domain.Session, error) {
	if priorToken != "" {
		if err := uc.sessions.Delete(ctx, priorToken); err != nil {
			uc.logger.Warn("failed to revoke prior session", zap.Error(err))
		}
	}

	if !uc.credential.Matches(username, password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		Token:     uuid.NewString(),
		Identity:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Identity resolves the session token to the authenticated identity.
// A missing or expired session yields ErrNotAuthenticated.
func (uc *UseCase) Identity(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrNotAuthenticated
	}
	session, err := uc.sessions.Get(ctx, token)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", domain.ErrNotAuthenticated
		}
		return "", err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, token)
		return "", domain.ErrNotAuthenticated
	}
	return session.Identity, nil
}

// Logout clears the session unconditionally and is idempotent.
func (uc *UseCase) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return uc.sessions.Delete(ctx, token)
}

// IssueAPIToken signs a bearer token carrying the identity claim, for API
// clients that prefer the Authorization header over the session cookie.
func (uc *UseCase) IssueAPIToken(identity string) (string, error) {
	claims := jwt.MapClaims{
		"identity": identity,
		"exp":      time.Now().Add(uc.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(uc.jwtSecret)
}
