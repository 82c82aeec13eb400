package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider names accepted by NewSender.
const (
	ProviderSendGrid = "sendgrid"
	ProviderResend   = "resend"
	ProviderSES      = "ses"
	ProviderLog      = "log"
)

// Message is a single outbound email; at least one of HTML or Text must be set.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers an email through a transactional email provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config selects and configures the email provider.
type Config struct {
	Provider       string
	FromEmail      string
	FromName       string
	SendGridAPIKey string
	SendGridHost   string
	ResendAPIKey   string
	AWSRegion      string
}

var (
	ErrMissingCredentials = errors.New("mail provider missing credentials")
	ErrUnknownProvider    = errors.New("unknown mail provider")
	ErrInvalidMessage     = errors.New("invalid email message")
)

// NewSender builds the Sender named by cfg.Provider. SendGrid is the default.
func NewSender(ctx context.Context, cfg Config) (Sender, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderSendGrid
	}
	if provider != ProviderLog && strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, fmt.Errorf("%w: sender email address required for %s", ErrMissingCredentials, provider)
	}

	switch provider {
	case ProviderSendGrid:
		return NewSendGridSender(cfg)
	case ProviderResend:
		return NewResendSender(cfg)
	case ProviderSES:
		return NewSESSender(ctx, cfg)
	case ProviderLog:
		return NewLogSender(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func (m Message) validate() error {
	to := strings.TrimSpace(m.To)
	if to == "" || !strings.Contains(to, "@") {
		return fmt.Errorf("%w: recipient %q", ErrInvalidMessage, m.To)
	}
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("%w: subject required", ErrInvalidMessage)
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("%w: body required", ErrInvalidMessage)
	}
	return nil
}

func formatAddress(name, address string) string {
	if strings.TrimSpace(name) == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
