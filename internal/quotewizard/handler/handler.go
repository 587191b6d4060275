package handler

import (
	"net/http"

	"hvac_quote_backend/internal/quotewizard/wizard"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type StepRequest struct {
	Step int         `json:"step" validate:"required,min=1,max=7"`
	Form wizard.Form `json:"form"`
}

type BackRequest struct {
	Step int `json:"step" validate:"required,min=1,max=7"`
}

type Handler struct {
	wizard *wizard.Wizard
	val    *validator.Validator
}

func New(wz *wizard.Wizard, val *validator.Validator) *Handler {
	return &Handler{wizard: wz, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/validate", h.Validate)
	rg.POST("/advance", h.Advance)
	rg.POST("/back", h.Back)
	rg.GET("/progress", h.Progress)
}

// Validate checks a step without moving.
// POST /api/v1/quote/validate
func (h *Handler) Validate(c *gin.Context) {
	var req StepRequest
	if !h.bind(c, &req) {
		return
	}
	httpkit.OK(c, wizard.ValidateStep(wizard.Step(req.Step), req.Form))
}

// Advance runs the step's transition. Validation failures and collaborator
// notices come back as 200 with valid=false.
// POST /api/v1/quote/advance
func (h *Handler) Advance(c *gin.Context) {
	var req StepRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.wizard.Advance(c.Request.Context(), wizard.Step(req.Step), req.Form)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, out)
}

// POST /api/v1/quote/back
func (h *Handler) Back(c *gin.Context) {
	var req BackRequest
	if !h.bind(c, &req) {
		return
	}
	httpkit.OK(c, gin.H{"step": wizard.Back(wizard.Step(req.Step))})
}

// Progress returns the messages shown while a quote is generated.
// GET /api/v1/quote/progress
func (h *Handler) Progress(c *gin.Context) {
	httpkit.OK(c, gin.H{
		"messages":   wizard.ProgressMessages,
		"intervalMs": wizard.ProgressInterval.Milliseconds(),
	})
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}
