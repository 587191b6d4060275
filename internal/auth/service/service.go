// Package service authenticates the single shared admin password and issues
// opaque session tokens.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hvac_quote_backend/internal/auth/session"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 12 * time.Hour

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid password")
	ErrSessionInvalid     = apperr.Unauthorized("invalid or expired session")
)

type Service struct {
	passwordHash []byte
	store        session.Store
	ttl          time.Duration
	log          *logger.Logger
	now          func() time.Time
}

// New reads the admin password from cfg. A bcrypt hash wins over a plain
// password, which is hashed once here.
func New(cfg config.AuthConfig, store session.Store, log *logger.Logger) (*Service, error) {
	hash := []byte(cfg.GetAdminPasswordHash())
	if len(hash) == 0 {
		plain := cfg.GetAdminPassword()
		if plain == "" {
			return nil, errors.New("admin password not configured")
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		hash = generated
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}

	ttl := cfg.GetAdminSessionTTL()
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}

	return &Service{passwordHash: hash, store: store, ttl: ttl, log: log, now: time.Now}, nil
}

// Login checks the password and starts a session.
func (s *Service) Login(ctx context.Context, password string) (string, session.Session, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", session.Session{}, ErrInvalidCredentials
	}

	raw, err := session.NewToken()
	if err != nil {
		return "", session.Session{}, fmt.Errorf("generate session token: %w", err)
	}

	now := s.now().UTC()
	sess := session.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session.HashToken(raw), sess, s.ttl); err != nil {
		return "", session.Session{}, apperr.Wrap(apperr.KindUnavailable, "session store unavailable", err)
	}
	return raw, sess, nil
}

// Check implements httpkit.SessionChecker.
func (s *Service) Check(ctx context.Context, raw string) (httpkit.Session, error) {
	sess, err := s.store.Get(ctx, session.HashToken(raw))
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.log.WithContext(ctx).Error("session lookup failed", "error", err)
		}
		return httpkit.Session{}, ErrSessionInvalid
	}
	if !s.now().Before(sess.ExpiresAt) {
		return httpkit.Session{}, ErrSessionInvalid
	}
	return httpkit.Session{ID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// Logout revokes the session behind raw. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, raw string) error {
	return s.store.Delete(ctx, session.HashToken(raw))
}

var _ httpkit.SessionChecker = (*Service)(nil)
