package handler

import (
	"context"
	"net/http"

	"hvac_quote_backend/internal/leads/domain"
	"hvac_quote_backend/internal/leads/management"
	"hvac_quote_backend/internal/leads/transport"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Predictor re-runs the quote for a lead.
type Predictor interface {
	Predict(ctx context.Context, leadID uuid.UUID) ([]transport.PredictionResponse, error)
}

type Handler struct {
	svc       *management.Service
	predictor Predictor
	val       *validator.Validator
}

func New(svc *management.Service, predictor Predictor, val *validator.Validator) *Handler {
	return &Handler{svc: svc, predictor: predictor, val: val}
}

// RegisterAdminRoutes mounts the lead table routes on an authenticated group.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetDetail)
	rg.PATCH("/:id", h.AdminUpdate)
}

func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) GetDetail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, err := h.svc.GetDetail(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, detail)
}

func (h *Handler) AdminUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transport.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	lead, err := h.svc.AdminUpdate(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Predict re-runs the quote for a lead that already has a property snapshot.
// POST /api/v1/leads/:id/predict
func (h *Handler) Predict(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	predictions, err := h.predictor.Predict(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"predictions": predictions})
}

// Pricing prices a pair of estimates.
// GET /api/v1/quote/pricing?electrical=&hvac=
func (h *Handler) Pricing(c *gin.Context) {
	var req transport.PricingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	httpkit.OK(c, domain.Price(req.Electrical, req.HVAC))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
