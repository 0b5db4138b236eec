package mailer

import (
	"context"

	"go.uber.org/zap"
)

// Attachment is a file carried with an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an outbound email.
type Message struct {
	From        string
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Mailer delivers messages. Actual transport (SMTP, a provider API) lives
// outside this service; deployments inject their own implementation.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer records outgoing messages to the application log instead of
// delivering them. Used in development and as the default wiring.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message metadata and drops the payload.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Sugar().Infow("mail suppressed (log mailer)",
		"to", msg.To,
		"subject", msg.Subject,
		"attachments", len(msg.Attachments),
	)
	return nil
}
