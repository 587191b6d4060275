package scheduler

import (
	"encoding/json"

	"hvac_quote_backend/internal/leads/transport"

	"github.com/hibiken/asynq"
)

const (
	TaskLeadPatch         = "leads.patch"
	TaskAdminNotification = "notification.admin"
)

const (
	QueueLeadPatches   = "lead_patches"
	QueueNotifications = "notifications"
)

// Notification kinds.
const (
	NotifyLeadCreated     = "lead_created"
	NotifyLeadQuoted      = "lead_quoted"
	NotifyPhotosSubmitted = "photos_submitted"
)

// AdminNotificationPayload is everything the admin email needs, so the
// worker does not have to read the lead back.
type AdminNotificationPayload struct {
	Kind        string   `json:"kind"`
	LeadID      string   `json:"leadId"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Address     string   `json:"address,omitempty"`
	Variants    []string `json:"variants,omitempty"`
	LowestTotal float64  `json:"lowestTotal,omitempty"`
	PhotoCount  int      `json:"photoCount,omitempty"`
}

func NewLeadPatchTask(patch transport.LeadPatch) (*asynq.Task, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadPatch, data), nil
}

func ParseLeadPatchPayload(task *asynq.Task) (transport.LeadPatch, error) {
	var patch transport.LeadPatch
	if err := json.Unmarshal(task.Payload(), &patch); err != nil {
		return transport.LeadPatch{}, err
	}
	return patch, nil
}

func NewAdminNotificationTask(payload AdminNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAdminNotification, data), nil
}

func ParseAdminNotificationPayload(task *asynq.Task) (AdminNotificationPayload, error) {
	var payload AdminNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AdminNotificationPayload{}, err
	}
	return payload, nil
}
