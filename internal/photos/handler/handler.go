package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"hvac_quote_backend/internal/leads/repository"
	"hvac_quote_backend/internal/photos/flow"
	"hvac_quote_backend/internal/photos/photolink"
	"hvac_quote_backend/internal/photos/service"
	"hvac_quote_backend/internal/photos/transport"
	"hvac_quote_backend/platform/httpkit"
	"hvac_quote_backend/platform/logger"
	"hvac_quote_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingPhoto     = "photo file is required"
	msgInvalidLink      = "this photo link is invalid or has expired"

	multipartOverhead = 1 << 20
)

type Handler struct {
	svc    *service.Service
	links  *photolink.Signer
	val    *validator.Validator
	log    *logger.Logger
	maxLen int64
}

func New(svc *service.Service, links *photolink.Signer, val *validator.Validator, maxPhotoSize int64, log *logger.Logger) *Handler {
	return &Handler{svc: svc, links: links, val: val, maxLen: maxPhotoSize, log: log}
}

// Steps returns the photo flow definition.
// GET /api/v1/photo-flow/steps
func (h *Handler) Steps(c *gin.Context) {
	f := h.svc.Flow()
	httpkit.OK(c, transport.StepsResponse{Steps: f.Steps(), Labels: f.Labels()})
}

// Transition moves the client one step forward or back.
// POST /api/v1/photo-flow/transition
func (h *Handler) Transition(c *gin.Context) {
	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	outcome := h.svc.Flow().Transition(flow.State{
		Position: req.Position,
		Answers:  req.Answers,
		Attached: req.Attached,
	}, flow.Direction(req.Direction))
	httpkit.OK(c, outcome)
}

// VerifyLink resolves a signed photo link to its lead.
// GET /api/v1/photo-flow/verify?token=
func (h *Handler) VerifyLink(c *gin.Context) {
	leadID, err := h.links.Verify(c.Query("token"))
	if err != nil {
		httpkit.Error(c, http.StatusUnauthorized, msgInvalidLink, nil)
		return
	}
	httpkit.OK(c, transport.VerifyLinkResponse{LeadID: leadID})
}

// Upload stores one photo for one slot.
// POST /api/v1/leads/:id/photos (multipart: photo, photoKey)
func (h *Handler) Upload(c *gin.Context) {
	leadID, ok := parseID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLen+multipartOverhead)
	fh, err := c.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpkit.Error(c, http.StatusRequestEntityTooLarge, "photo is too large", nil)
			return
		}
		httpkit.Error(c, http.StatusBadRequest, msgMissingPhoto, nil)
		return
	}

	file, err := fh.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingPhoto, nil)
		return
	}
	defer file.Close()

	photo, err := h.svc.Upload(c.Request.Context(), service.UploadInput{
		LeadID:      leadID,
		PhotoKey:    c.PostForm("photoKey"),
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        file,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toPhotoResponse(photo))
}

// Complete closes the photo flow.
// POST /api/v1/leads/:id/photos/complete
func (h *Handler) Complete(c *gin.Context) {
	leadID, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Complete(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Status reports per-slot upload state.
// GET /api/v1/leads/:id/photos/status
func (h *Handler) Status(c *gin.Context) {
	leadID, ok := parseID(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.UploadStatusResponse{LeadID: leadID, Slots: h.svc.Status(leadID)})
}

// LinkQRCode renders a signed photo-flow link as a PNG.
// GET /api/v1/leads/:id/photo-link.png
func (h *Handler) LinkQRCode(c *gin.Context) {
	leadID, ok := parseID(c)
	if !ok {
		return
	}

	png, err := h.links.QRCode(leadID)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("qr code render failed", "error", err)
		httpkit.Error(c, http.StatusInternalServerError, "could not create photo link", nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// Photo streams a stored photo to the admin UI.
// GET /api/v1/admin/photos/:id
func (h *Handler) Photo(c *gin.Context) {
	photoID, ok := parseID(c)
	if !ok {
		return
	}

	photo, body, err := h.svc.Open(c.Request.Context(), photoID)
	if httpkit.HandleError(c, err) {
		return
	}
	defer body.Close()

	c.Header("Content-Type", photo.MimeType)
	c.Header("Content-Length", strconv.FormatInt(photo.FileSize, 10))
	c.Header("Cache-Control", "private, max-age=3600")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.WithContext(c.Request.Context()).Warn("photo stream interrupted", "photo_id", photoID.String(), "error", err)
	}
}

func toPhotoResponse(p repository.Photo) transport.PhotoResponse {
	return transport.PhotoResponse{
		ID:        p.ID,
		LeadID:    p.LeadID,
		PhotoKey:  p.PhotoKey,
		FileSize:  p.FileSize,
		MimeType:  p.MimeType,
		TakenAt:   p.TakenAt,
		CreatedAt: p.CreatedAt,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}

// RegisterRoutes mounts the customer-facing photo routes. upload guards the
// upload route.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup, upload gin.HandlerFunc) {
	v1.GET("/photo-flow/steps", h.Steps)
	v1.POST("/photo-flow/transition", h.Transition)
	v1.GET("/photo-flow/verify", h.VerifyLink)

	leads := v1.Group("/leads/:id")
	if upload != nil {
		leads.POST("/photos", upload, h.Upload)
	} else {
		leads.POST("/photos", h.Upload)
	}
	leads.POST("/photos/complete", h.Complete)
	leads.GET("/photos/status", h.Status)
	leads.GET("/photo-link.png", h.LinkQRCode)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/photos/:id", h.Photo)
}
