// Package photolink signs the links that open a lead's photo flow on another
// device, and renders them as QR codes.
package photolink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	tokenType   = "photo_flow"
	defaultTTL  = 7 * 24 * time.Hour
	qrImageSize = 256
)

var ErrInvalidLink = errors.New("photo link is invalid or expired")

type Signer struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

func NewSigner(secret string, ttl time.Duration, appBaseURL string) *Signer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Signer{
		secret:  []byte(secret),
		ttl:     ttl,
		baseURL: strings.TrimRight(appBaseURL, "/"),
		now:     time.Now,
	}
}

// Link is a signed photo-flow URL.
type Link struct {
	URL       string    `json:"url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Signer) Sign(leadID uuid.UUID) (Link, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"sub":  leadID.String(),
		"type": tokenType,
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Link{}, fmt.Errorf("sign photo link: %w", err)
	}

	return Link{
		URL:       s.baseURL + "/submit-photos/" + leadID.String() + "?token=" + url.QueryEscape(token),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify returns the lead a token was issued for.
func (s *Signer) Verify(raw string) (uuid.UUID, error) {
	parsed, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidLink
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidLink
	}
	if t, _ := claims["type"].(string); t != tokenType {
		return uuid.Nil, ErrInvalidLink
	}

	sub, _ := claims["sub"].(string)
	leadID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidLink
	}
	return leadID, nil
}

// QRCode renders a fresh signed link for the lead as a PNG.
func (s *Signer) QRCode(leadID uuid.UUID) ([]byte, error) {
	link, err := s.Sign(leadID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(link.URL, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
