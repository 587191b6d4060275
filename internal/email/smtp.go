package email

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"hvac_quote_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers the rendered templates through go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

// NewSender returns an SMTP sender when email is enabled and a no-op
// sender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(), cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
}

func (s *SMTPSender) buildMessage(toEmail, subject, htmlContent string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)
	return msg, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg, err := s.buildMessage(toEmail, subject, htmlContent)
	if err != nil {
		return err
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendNewLeadEmail(ctx context.Context, toEmail string, lead NewLead) error {
	name := displayName(lead.Name)
	content, err := renderEmailTemplate("new_lead.html", newLeadEmailData{
		baseEmailData: baseEmailData{
			Title:    "New quote lead",
			Heading:  "New quote lead",
			CTALabel: "Open lead",
			CTAURL:   lead.LeadURL,
		},
		Name:    name,
		Email:   lead.Email,
		Address: lead.Address,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectNewLeadFmt, name), content)
}

func (s *SMTPSender) SendQuoteReadyEmail(ctx context.Context, toEmail string, quote QuoteReady) error {
	name := displayName(quote.Name)
	content, err := renderEmailTemplate("quote_ready.html", quoteReadyEmailData{
		baseEmailData: baseEmailData{
			Title:    "Quote ready",
			Heading:  "Quote ready",
			CTALabel: "Review quote",
			CTAURL:   quote.LeadURL,
		},
		Name:           name,
		Email:          quote.Email,
		Address:        quote.Address,
		Variants:       strings.Join(quote.Variants, ", "),
		TotalFormatted: formatCurrencyUSD(quote.LowestTotal),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteReadyFmt, name), content)
}

func (s *SMTPSender) SendPhotosSubmittedEmail(ctx context.Context, toEmail string, photos PhotosSubmitted) error {
	name := displayName(photos.Name)
	content, err := renderEmailTemplate("photos_submitted.html", photosSubmittedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Equipment photos submitted",
			Heading:  "Equipment photos submitted",
			CTALabel: "View photos",
			CTAURL:   photos.LeadURL,
		},
		Name:       name,
		PhotoCount: photos.PhotoCount,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectPhotosSubmittedFmt, name, photos.PhotoCount), content)
}
