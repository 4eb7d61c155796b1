package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/db/models"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/logger"
	"github.com/emmanuel197/cloud9wearfirebase-sub001/pkg/mailer"
)

const (
	sendAttempts = 3
	sendBackoff  = 500 * time.Millisecond
)

// EmailNotifier sends transactional order email through the configured sender.
// Delivery is at-least-once with a small bounded retry; callers treat failure
// as log-only.
type EmailNotifier struct {
	sender mailer.Sender
	log    *logger.Logger
}

// NewEmailNotifier constructs the notifier.
func NewEmailNotifier(sender mailer.Sender, log *logger.Logger) (*EmailNotifier, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	return &EmailNotifier{sender: sender, log: log}, nil
}

// PaymentReceived emails the order confirmation after a successful payment.
func (n *EmailNotifier) PaymentReceived(ctx context.Context, order *models.Order) error {
	subject, text := paymentReceivedBody(order)
	return n.send(ctx, order.CustomerEmail, subject, text)
}

// OrderStatusChanged emails the status-specific update for an order.
func (n *EmailNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) error {
	subject, text := statusChangedBody(order)
	return n.send(ctx, order.CustomerEmail, subject, text)
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, text string) error {
	if to == "" {
		return fmt.Errorf("recipient email missing")
	}

	msg := mailer.Message{
		To:      to,
		Subject: subject,
		Text:    text,
	}

	var lastErr error
	for attempt := 0; attempt < sendAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * sendBackoff):
			}
		}

		if err := n.sender.Send(ctx, msg); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("send email after %d attempts: %w", sendAttempts, lastErr)
}
