package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hvac_quote_backend/internal/auth/service"
	"hvac_quote_backend/internal/auth/session"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authConfig struct{}

func (authConfig) GetRedisURL() string               { return "" }
func (authConfig) GetAdminPassword() string          { return "s3cret" }
func (authConfig) GetAdminPasswordHash() string      { return "" }
func (authConfig) GetAdminSessionTTL() time.Duration { return time.Hour }

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, err := service.New(authConfig{}, session.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)
	h := New(svc, validator.New(), logger.Discard())

	r := gin.New()
	public := r.Group("/admin")
	public.POST("/login", h.Login)
	admin := r.Group("/admin")
	admin.Use(httpkit.AdminRequired(svc))
	admin.POST("/logout", h.Logout)
	admin.GET("/session", h.Session)
	return r
}

func login(r *gin.Engine, password string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withToken(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLoginFlow(t *testing.T) {
	r := newEngine(t)

	assert.Equal(t, http.StatusUnauthorized, login(r, "nope").Code)

	w := login(r, "s3cret")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withToken(http.MethodGet, "/admin/session", resp.Token))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withToken(http.MethodPost, "/admin/logout", resp.Token))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withToken(http.MethodGet, "/admin/session", resp.Token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRequiresPassword(t *testing.T) {
	r := newEngine(t)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
