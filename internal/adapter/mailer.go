package adapter

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers a rendered report to the payer.
type Mailer interface {
	SendReport(ctx context.Context, email, content string) error
}

// LogMailer records deliveries in the log instead of sending mail.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendReport logs the delivery.
func (m *LogMailer) SendReport(_ context.Context, email, content string) error {
	m.logger.Info("[LOG MAILER] report delivery simulated",
		zap.String("recipient", email),
		zap.Int("content_length", len(content)),
	)
	return nil
}
