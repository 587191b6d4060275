package handler

import (
	"net/http"

	"hvac_quote_backend/internal/auth/service"
	"hvac_quote_backend/internal/auth/transport"
	"hvac_quote_backend/platform/apperr"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
	log *logger.Logger
}

func New(svc *service.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

// Login exchanges the admin password for a session token.
// POST /api/v1/admin/login
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	token, sess, err := h.svc.Login(c.Request.Context(), req.Password)
	if err != nil {
		h.log.WithContext(c.Request.Context()).AuthEvent("login", c.ClientIP(), false, apperr.GetKind(err).String())
		httpkit.HandleError(c, err)
		return
	}
	h.log.WithContext(c.Request.Context()).AuthEvent("login", c.ClientIP(), true, "")
	httpkit.OK(c, transport.LoginResponse{Token: token, ExpiresAt: sess.ExpiresAt})
}

// Logout revokes the caller's session.
// POST /api/v1/admin/logout
func (h *Handler) Logout(c *gin.Context) {
	raw, ok := httpkit.BearerToken(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing token", nil)
		return
	}
	if err := h.svc.Logout(c.Request.Context(), raw); httpkit.HandleError(c, err) {
		return
	}
	h.log.WithContext(c.Request.Context()).AuthEvent("logout", c.ClientIP(), true, "")
	c.Status(http.StatusNoContent)
}

// Session reports the current session so the UI can tell when to log in again.
// GET /api/v1/admin/session
func (h *Handler) Session(c *gin.Context) {
	sess, ok := httpkit.MustGetSession(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.SessionResponse{ID: sess.ID, ExpiresAt: sess.ExpiresAt})
}
