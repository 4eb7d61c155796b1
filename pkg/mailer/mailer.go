package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/config"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
)

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through the configured SMTP relay.
type SMTPSender struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
}

// NewSMTPSender builds a sender bound to the SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig, logg *logger.Logger) (*SMTPSender, error) {
	if !cfg.Sandbox && strings.TrimSpace(cfg.Host) == "" {
		return nil, fmt.Errorf("smtp host is required outside sandbox mode")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPSender{cfg: cfg, logg: logg}, nil
}

// Send delivers the message. In sandbox mode the message is logged instead
// of dialed out, so dev environments never hit the relay.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	if s.cfg.Sandbox {
		if s.logg != nil {
			ctx = s.logg.WithFields(ctx, map[string]any{
				"to":      msg.To,
				"subject": msg.Subject,
			})
			s.logg.Info(ctx, "sandbox email suppressed")
		}
		return nil
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject)
	if msg.HTML != "" {
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
		if msg.Text != "" {
			m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
		}
	} else {
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, m)
}
