package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender constructs a Resend sender if the API key is set.
func NewResendSender(cfg Config) (*ResendSender, error) {
	key := strings.TrimSpace(cfg.ResendAPIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: RESEND_API_KEY", ErrMissingCredentials)
	}
	return &ResendSender{
		client: resend.NewClient(key),
		from:   formatAddress(strings.TrimSpace(cfg.FromName), strings.TrimSpace(cfg.FromEmail)),
	}, nil
}

// Send submits the message to Resend.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{strings.TrimSpace(msg.To)},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"provider":   ProviderResend,
		"to":         msg.To,
		"subject":    msg.Subject,
		"message_id": sent.Id,
	}).Debug("email accepted")
	return nil
}
