package transport

import (
	"time"

	"hvac_quote_backend/internal/photos/flow"

	"github.com/google/uuid"
)

type StepsResponse struct {
	Steps  []flow.Step `json:"steps"`
	Labels []string    `json:"labels"`
}

// TransitionRequest is the client's current flow state and the way it wants
// to move.
type TransitionRequest struct {
	Position  int             `json:"position" validate:"min=0"`
	Direction string          `json:"direction" validate:"required,oneof=next prev"`
	Answers   map[string]bool `json:"answers"`
	Attached  map[string]bool `json:"attached"`
}

type VerifyLinkResponse struct {
	LeadID uuid.UUID `json:"leadId"`
}

type PhotoResponse struct {
	ID        uuid.UUID  `json:"id"`
	LeadID    uuid.UUID  `json:"leadId"`
	PhotoKey  string     `json:"photoKey"`
	FileSize  int64      `json:"fileSize"`
	MimeType  string     `json:"mimeType"`
	TakenAt   *time.Time `json:"takenAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type UploadStatusResponse struct {
	LeadID uuid.UUID                    `json:"leadId"`
	Slots  map[string]flow.UploadStatus `json:"slots"`
}
