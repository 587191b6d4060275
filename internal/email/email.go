// Package email delivers admin notifications about new leads.
package email

import (
	"context"
)

// NewLead describes a lead created at the contact step.
type NewLead struct {
	LeadID  string
	Name    string
	Email   string
	Address string
	LeadURL string
}

// QuoteReady describes a lead whose quote was just computed.
type QuoteReady struct {
	LeadID      string
	Name        string
	Email       string
	Address     string
	Variants    []string
	LowestTotal float64
	LeadURL     string
}

// PhotosSubmitted describes a completed photo flow.
type PhotosSubmitted struct {
	LeadID     string
	Name       string
	PhotoCount int
	LeadURL    string
}

type Sender interface {
	SendNewLeadEmail(ctx context.Context, toEmail string, lead NewLead) error
	SendQuoteReadyEmail(ctx context.Context, toEmail string, quote QuoteReady) error
	SendPhotosSubmittedEmail(ctx context.Context, toEmail string, photos PhotosSubmitted) error
}

// NoopSender is used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendNewLeadEmail(context.Context, string, NewLead) error { return nil }

func (NoopSender) SendQuoteReadyEmail(context.Context, string, QuoteReady) error { return nil }

func (NoopSender) SendPhotosSubmittedEmail(context.Context, string, PhotosSubmitted) error {
	return nil
}

var (
	_ Sender = NoopSender{}
	_ Sender = (*SMTPSender)(nil)
)
