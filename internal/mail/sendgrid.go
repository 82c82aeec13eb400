package mail

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

const defaultSendGridHost = "https://api.sendgrid.com"

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	apiKey string
	host   string
	from   *sgmail.Email
}

// NewSendGridSender constructs a SendGrid sender if the API key is set.
func NewSendGridSender(cfg Config) (*SendGridSender, error) {
	key := strings.TrimSpace(cfg.SendGridAPIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: SENDGRID_API_KEY", ErrMissingCredentials)
	}
	host := strings.TrimRight(strings.TrimSpace(cfg.SendGridHost), "/")
	if host == "" {
		host = defaultSendGridHost
	}
	return &SendGridSender{
		apiKey: key,
		host:   host,
		from:   sgmail.NewEmail(strings.TrimSpace(cfg.FromName), strings.TrimSpace(cfg.FromEmail)),
	}, nil
}

// Send posts the message to /v3/mail/send.
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject
	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail("", strings.TrimSpace(msg.To)))
	m.AddPersonalizations(p)
	// SendGrid requires text/plain ahead of text/html.
	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	req := sendgrid.GetRequest(s.apiKey, "/v3/mail/send", s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}

	logrus.WithFields(logrus.Fields{
		"provider":   ProviderSendGrid,
		"to":         msg.To,
		"subject":    msg.Subject,
		"message_id": resp.Headers["X-Message-Id"],
	}).Debug("email accepted")
	return nil
}
