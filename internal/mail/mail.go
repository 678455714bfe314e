// Package mail is the delivery boundary for outbound email. Actual
// delivery (newsletter provider, transactional mail) lives outside this
// system; the default implementation only records the intent.
package mail

import (
	"context"

	"go.uber.org/zap"
)

// Sender delivers a templated message to a recipient.
type Sender interface {
	Send(ctx context.Context, recipient, template string, data map[string]string) error
}

// LogSender is a Sender that logs instead of delivering. Used wherever a
// real provider is not configured.
type LogSender struct {
	lg *zap.Logger
}

// NewLogSender creates a LogSender writing to the given logger.
func NewLogSender(lg *zap.Logger) *LogSender {
	return &LogSender{lg: lg}
}

func (s *LogSender) Send(_ context.Context, recipient, template string, data map[string]string) error {
	s.lg.Info("mail send",
		zap.String("recipient", recipient),
		zap.String("template", template),
		zap.Any("data", data),
	)
	return nil
}
