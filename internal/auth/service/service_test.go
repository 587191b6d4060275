package service

import (
	"context"
	"testing"
	"time"

	"hvac_quote_backend/internal/auth/session"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authConfig struct {
	password string
	hash     string
	ttl      time.Duration
}

func (c authConfig) GetRedisURL() string               { return "" }
func (c authConfig) GetAdminPassword() string          { return c.password }
func (c authConfig) GetAdminPasswordHash() string      { return c.hash }
func (c authConfig) GetAdminSessionTTL() time.Duration { return c.ttl }

func TestLoginCheckLogout(t *testing.T) {
	svc, err := New(authConfig{password: "s3cret", ttl: time.Hour}, session.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = svc.Login(ctx, "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	token, sess, err := svc.Login(ctx, "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	checked, err := svc.Check(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, checked.ID)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Check(ctx, token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestCheckRejectsExpiredSession(t *testing.T) {
	svc, err := New(authConfig{password: "s3cret", ttl: time.Hour}, session.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "s3cret")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Check(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestNewWithHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	svc, err := New(authConfig{password: "ignored", hash: string(hash)}, session.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, defaultSessionTTL, svc.ttl)

	_, _, err = svc.Login(context.Background(), "from-hash")
	assert.NoError(t, err)
	_, _, err = svc.Login(context.Background(), "ignored")
	assert.Error(t, err)
}

func TestNewRequiresPassword(t *testing.T) {
	_, err := New(authConfig{}, session.NewMemoryStore(), logger.Discard())
	assert.Error(t, err)

	_, err = New(authConfig{hash: "not-bcrypt"}, session.NewMemoryStore(), logger.Discard())
	assert.Error(t, err)
}
