package httpkit

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ContextSessionKey stores the admin Session on the gin context.
const ContextSessionKey = "adminSession"

// Session is what handlers can learn about the admin caller.
type Session struct {
	ID        string
	ExpiresAt time.Time
}

// SessionChecker resolves an opaque bearer token into a live session.
type SessionChecker interface {
	Check(ctx context.Context, token string) (Session, error)
}

// GetSession returns the admin session set by AdminRequired.
func GetSession(c *gin.Context) (Session, bool) {
	value, ok := c.Get(ContextSessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := value.(Session)
	return session, ok
}

// MustGetSession aborts with 401 when no admin session is present.
func MustGetSession(c *gin.Context) (Session, bool) {
	session, ok := GetSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: errMissingToken})
		return Session{}, false
	}
	return session, true
}

// BearerToken extracts the raw token from the Authorization header or,
// for <img> requests, from the token query parameter.
func BearerToken(c *gin.Context) (string, bool) {
	if raw, ok := extractBearerToken(c.GetHeader("Authorization")); ok {
		return raw, true
	}
	if raw := c.Query("token"); raw != "" {
		return raw, true
	}
	return "", false
}
