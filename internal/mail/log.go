package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes messages to the log instead of delivering them. Development only.
type LogSender struct {
	from string
}

func NewLogSender(cfg Config) *LogSender {
	return &LogSender{from: formatAddress(cfg.FromName, cfg.FromEmail)}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	entry := logrus.WithFields(logrus.Fields{
		"provider":   ProviderLog,
		"from":       s.from,
		"to":         msg.To,
		"subject":    msg.Subject,
		"html_bytes": len(msg.HTML),
	})
	if msg.Text != "" {
		entry = entry.WithField("text", msg.Text)
	}
	entry.Info("email not delivered (log provider)")
	return nil
}
