package handler

import (
	"net/http"

	"hvac_quote_backend/internal/property/service"
	"hvac_quote_backend/internal/property/transport"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Lookup returns the raw property record for an address.
// POST /api/v1/property/lookup
func (h *Handler) Lookup(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	p, err := h.svc.Lookup(c.Request.Context(), req.Address)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, p)
}
