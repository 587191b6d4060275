package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hvac_quote_backend/internal/email"
	"hvac_quote_backend/internal/events"
	"hvac_quote_backend/internal/scheduler"
	"hvac_quote_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNotificationConfig struct{ notify string }

func (testNotificationConfig) GetEmailEnabled() bool       { return true }
func (testNotificationConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (testNotificationConfig) GetSMTPPort() int            { return 587 }
func (testNotificationConfig) GetSMTPUsername() string     { return "" }
func (testNotificationConfig) GetSMTPPassword() string     { return "" }
func (testNotificationConfig) GetEmailFromName() string    { return "Heat Pump Quotes" }
func (testNotificationConfig) GetEmailFromAddress() string { return "quotes@example.com" }
func (c testNotificationConfig) GetNotifyAddress() string  { return c.notify }
func (testNotificationConfig) GetAppBaseURL() string       { return "https://quotes.example.com/" }

type testSender struct {
	mu      sync.Mutex
	leads   []email.NewLead
	quotes  []email.QuoteReady
	photos  []email.PhotosSubmitted
	sendErr error
}

func (s *testSender) SendNewLeadEmail(_ context.Context, _ string, lead email.NewLead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, lead)
	return s.sendErr
}

func (s *testSender) SendQuoteReadyEmail(_ context.Context, _ string, quote email.QuoteReady) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = append(s.quotes, quote)
	return s.sendErr
}

func (s *testSender) SendPhotosSubmittedEmail(_ context.Context, _ string, photos email.PhotosSubmitted) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photos = append(s.photos, photos)
	return s.sendErr
}

type testQueue struct {
	payloads []scheduler.AdminNotificationPayload
	err      error
}

func (q *testQueue) EnqueueAdminNotification(_ context.Context, p scheduler.AdminNotificationPayload) error {
	if q.err != nil {
		return q.err
	}
	q.payloads = append(q.payloads, p)
	return nil
}

type testContacts struct{ contact LeadContact }

func (c testContacts) GetLeadContact(context.Context, uuid.UUID) (LeadContact, error) {
	return c.contact, nil
}

func TestHandleSendsInlineWithoutQueue(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testNotificationConfig{notify: "admin@example.com"}, nil, logger.Discard())
	leadID := uuid.New()

	err := m.Handle(context.Background(), events.LeadCreated{LeadID: leadID, Name: "Ada Lovelace", AddressRaw: "1 Main St"})
	require.NoError(t, err)

	require.Len(t, sender.leads, 1)
	assert.Equal(t, "Ada Lovelace", sender.leads[0].Name)
	assert.Equal(t, "https://quotes.example.com/admin/leads/"+leadID.String(), sender.leads[0].LeadURL)
}

func TestHandleEnqueuesWhenQueueAvailable(t *testing.T) {
	sender := &testSender{}
	queue := &testQueue{}
	m := New(sender, testNotificationConfig{notify: "admin@example.com"}, queue, logger.Discard())

	err := m.Handle(context.Background(), events.LeadQuoted{
		LeadID:      uuid.New(),
		Name:        "Ada",
		Variants:    []string{"ducted", "ductless"},
		LowestTotal: 2650,
	})
	require.NoError(t, err)

	require.Len(t, queue.payloads, 1)
	assert.Equal(t, scheduler.NotifyLeadQuoted, queue.payloads[0].Kind)
	assert.Equal(t, 2650.0, queue.payloads[0].LowestTotal)
	assert.Empty(t, sender.quotes)
}

func TestHandleFallsBackWhenEnqueueFails(t *testing.T) {
	sender := &testSender{}
	queue := &testQueue{err: errors.New("redis down")}
	m := New(sender, testNotificationConfig{notify: "admin@example.com"}, queue, logger.Discard())

	require.NoError(t, m.Handle(context.Background(), events.LeadQuoted{LeadID: uuid.New(), Name: "Ada"}))
	assert.Len(t, sender.quotes, 1)
}

func TestPhotosSubmittedResolvesContact(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testNotificationConfig{notify: "admin@example.com"}, nil, logger.Discard())
	m.SetLeadContactReader(testContacts{contact: LeadContact{Name: "Grace Hopper"}})

	require.NoError(t, m.Handle(context.Background(), events.PhotosSubmitted{LeadID: uuid.New(), PhotoCount: 7}))
	require.Len(t, sender.photos, 1)
	assert.Equal(t, "Grace Hopper", sender.photos[0].Name)
	assert.Equal(t, 7, sender.photos[0].PhotoCount)
}

func TestNotifierSkipsWithoutRecipient(t *testing.T) {
	sender := &testSender{}
	n := NewNotifier(sender, "", "https://quotes.example.com", logger.Discard())

	err := n.SendAdminNotification(context.Background(), scheduler.AdminNotificationPayload{Kind: scheduler.NotifyLeadCreated})
	require.NoError(t, err)
	assert.Empty(t, sender.leads)
}

func TestNotifierReturnsSendErrorForRetry(t *testing.T) {
	sender := &testSender{sendErr: errors.New("smtp refused")}
	n := NewNotifier(sender, "admin@example.com", "https://quotes.example.com", logger.Discard())

	err := n.SendAdminNotification(context.Background(), scheduler.AdminNotificationPayload{Kind: scheduler.NotifyPhotosSubmitted, LeadID: uuid.NewString()})
	assert.Error(t, err)
}

func TestRegisterHandlersThroughBus(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testNotificationConfig{notify: "admin@example.com"}, nil, logger.Discard())
	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)

	bus.Publish(context.Background(), events.LeadCreated{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New(), Name: "Ada"})
	bus.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.leads, 1)
}
