package push

import (
	"context"

	"go.uber.org/zap"
)

// LogSender records notifications instead of delivering them. Used when no
// push provider is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("push notification",
		zap.String("token", redact(msg.Token)),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body),
	)
	return nil
}

// redact keeps a short prefix of a device token for log correlation.
func redact(token string) string {
	return token[:min(20, len(token))]
}
