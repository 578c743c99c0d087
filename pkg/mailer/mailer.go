// Package mailer delivers outgoing notification emails through a pluggable
// transport: a zap log sink for development, SendGrid, or an AMQP queue
// consumed by an external mail worker.
package mailer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"oragh/backend/config"
)

// Message is one outgoing email.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// New builds the Sender selected by cfg.Driver.
func New(cfg *config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Driver {
	case config.MailDriverLog, "":
		return NewLogSender(logger), nil
	case config.MailDriverSendGrid:
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.FromName, cfg.FromAddress), nil
	case config.MailDriverAMQP:
		return NewAMQPSender(cfg.AMQPURL, cfg.AMQPQueue, cfg.FromAddress)
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Driver)
	}
}

// LogSender writes messages to the application log instead of sending them.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("outgoing email",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}

func (s *LogSender) Close() error { return nil }
