package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer renders messages and writes them to the log instead of sending.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the rendered subject.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	subj, _, err := Render(msg)
	if err != nil {
		return err
	}
	m.logger.Info("mail (not sent)",
		zap.String("to", msg.To),
		zap.String("kind", string(msg.Kind)),
		zap.String("subject", subj),
	)
	return nil
}
