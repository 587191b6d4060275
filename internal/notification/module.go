// Package notification turns lead events into admin emails. Each event is
// queued on the notifications queue when a worker is available and sent
// inline otherwise.
package notification

import (
	"context"
	"strings"

	"hvac_quote_backend/internal/email"
	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/config"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadContact is the contact detail shown in an admin email.
type LeadContact struct {
	Name    string
	Email   string
	Address string
}

// LeadContactReader resolves contact details for events that carry only a
// lead id.
type LeadContactReader interface {
	GetLeadContact(ctx context.Context, leadID uuid.UUID) (LeadContact, error)
}

// Module handles the notification event subscriptions.
type Module struct {
	queue    scheduler.NotificationQueue
	notifier *Notifier
	contacts LeadContactReader
	log      *logger.Logger
}

// New builds the module. queue may be nil.
func New(sender email.Sender, cfg config.EmailConfig, queue scheduler.NotificationQueue, log *logger.Logger) *Module {
	return &Module{
		queue:    queue,
		notifier: NewNotifier(sender, cfg.GetNotifyAddress(), cfg.GetAppBaseURL(), log),
		log:      log,
	}
}

func (m *Module) Name() string { return "notification" }

// Notifier is handed to the worker so queued notifications use the same
// templates.
func (m *Module) Notifier() *Notifier { return m.notifier }

func (m *Module) SetLeadContactReader(reader LeadContactReader) { m.contacts = reader }

// RegisterHandlers subscribes to the lead events that notify the admin.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.LeadQuoted{}.EventName(), m)
	bus.Subscribe(events.PhotosSubmitted{}.EventName(), m)
}

// Handle implements events.Handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.dispatch(ctx, scheduler.AdminNotificationPayload{
			Kind:    scheduler.NotifyLeadCreated,
			LeadID:  e.LeadID.String(),
			Name:    e.Name,
			Email:   e.Email,
			Address: e.AddressRaw,
		})
	case events.LeadQuoted:
		return m.dispatch(ctx, scheduler.AdminNotificationPayload{
			Kind:        scheduler.NotifyLeadQuoted,
			LeadID:      e.LeadID.String(),
			Name:        e.Name,
			Email:       e.Email,
			Address:     e.FormattedAddress,
			Variants:    e.Variants,
			LowestTotal: e.LowestTotal,
		})
	case events.PhotosSubmitted:
		payload := scheduler.AdminNotificationPayload{
			Kind:       scheduler.NotifyPhotosSubmitted,
			LeadID:     e.LeadID.String(),
			PhotoCount: e.PhotoCount,
		}
		m.fillContact(ctx, e.LeadID, &payload)
		return m.dispatch(ctx, payload)
	default:
		return nil
	}
}

func (m *Module) fillContact(ctx context.Context, leadID uuid.UUID, payload *scheduler.AdminNotificationPayload) {
	if m.contacts == nil {
		return
	}
	contact, err := m.contacts.GetLeadContact(ctx, leadID)
	if err != nil {
		m.log.Warn("lead contact lookup failed", "lead_id", leadID.String(), "error", err)
		return
	}
	payload.Name = contact.Name
	payload.Email = contact.Email
	payload.Address = contact.Address
}

func (m *Module) dispatch(ctx context.Context, payload scheduler.AdminNotificationPayload) error {
	if m.queue != nil {
		err := m.queue.EnqueueAdminNotification(ctx, payload)
		if err == nil {
			return nil
		}
		m.log.Degraded("enqueue_admin_notification", payload.LeadID, err)
	}
	return m.notifier.SendAdminNotification(ctx, payload)
}

// Notifier renders and sends one admin notification.
type Notifier struct {
	sender  email.Sender
	to      string
	baseURL string
	log     *logger.Logger
}

func NewNotifier(sender email.Sender, to, appBaseURL string, log *logger.Logger) *Notifier {
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &Notifier{sender: sender, to: to, baseURL: strings.TrimRight(appBaseURL, "/"), log: log}
}

// SendAdminNotification implements scheduler.Notifier.
func (n *Notifier) SendAdminNotification(ctx context.Context, payload scheduler.AdminNotificationPayload) error {
	if n.to == "" {
		return nil
	}

	leadURL := n.baseURL + "/admin/leads/" + payload.LeadID
	var err error
	switch payload.Kind {
	case scheduler.NotifyLeadCreated:
		err = n.sender.SendNewLeadEmail(ctx, n.to, email.NewLead{
			LeadID:  payload.LeadID,
			Name:    payload.Name,
			Email:   payload.Email,
			Address: payload.Address,
			LeadURL: leadURL,
		})
	case scheduler.NotifyLeadQuoted:
		err = n.sender.SendQuoteReadyEmail(ctx, n.to, email.QuoteReady{
			LeadID:      payload.LeadID,
			Name:        payload.Name,
			Email:       payload.Email,
			Address:     payload.Address,
			Variants:    payload.Variants,
			LowestTotal: payload.LowestTotal,
			LeadURL:     leadURL,
		})
	case scheduler.NotifyPhotosSubmitted:
		err = n.sender.SendPhotosSubmittedEmail(ctx, n.to, email.PhotosSubmitted{
			LeadID:     payload.LeadID,
			Name:       payload.Name,
			PhotoCount: payload.PhotoCount,
			LeadURL:    leadURL,
		})
	default:
		n.log.Warn("unknown admin notification kind", "kind", payload.Kind)
		return nil
	}
	if err != nil {
		n.log.Error("admin notification failed", "kind", payload.Kind, "lead_id", payload.LeadID, "error", err)
		return err
	}
	n.log.Info("admin notification sent", "kind", payload.Kind, "lead_id", payload.LeadID)
	return nil
}

var (
	_ events.Handler     = (*Module)(nil)
	_ scheduler.Notifier = (*Notifier)(nil)
)
