package photolink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	s := NewSigner("test-secret", 0, "https://quotes.example.com/")
	lead := uuid.New()

	link, err := s.Sign(lead)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.URL, "https://quotes.example.com/submit-photos/"+lead.String()+"?token="))
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), link.ExpiresAt, time.Minute)

	got, err := s.Verify(link.Token)
	require.NoError(t, err)
	assert.Equal(t, lead, got)
}

func TestVerifyRejectsExpiredAndForeignTokens(t *testing.T) {
	s := NewSigner("test-secret", time.Hour, "https://quotes.example.com")
	link, err := s.Sign(uuid.New())
	require.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = s.Verify(link.Token)
	assert.ErrorIs(t, err, ErrInvalidLink)

	other := NewSigner("other-secret", time.Hour, "https://quotes.example.com")
	_, err = other.Verify(link.Token)
	assert.ErrorIs(t, err, ErrInvalidLink)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  uuid.NewString(),
		"type": "access",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = NewSigner("test-secret", time.Hour, "").Verify(wrongType)
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestQRCodeIsPNG(t *testing.T) {
	s := NewSigner("test-secret", time.Hour, "https://quotes.example.com")

	png, err := s.QRCode(uuid.New())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
