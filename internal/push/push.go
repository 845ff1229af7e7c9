// Package push delivers notifications to registered devices.
package push

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider names accepted by New.
const (
	ProviderLog  = "log"
	ProviderFCM  = "fcm"
	ProviderExpo = "expo"
)

// Message is one notification addressed to a single device.
type Message struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a Message. A nil error means the provider accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// FCMCredentials are the service-account fields needed by the FCM sender.
type FCMCredentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// New builds the Sender for provider. Unknown providers are an error; an FCM
// provider without credentials falls back to logging.
func New(ctx context.Context, provider string, creds FCMCredentials, logger *zap.Logger) (Sender, error) {
	switch provider {
	case "", ProviderLog:
		return NewLogSender(logger), nil
	case ProviderExpo:
		return NewExpoSender(logger), nil
	case ProviderFCM:
		if creds.ProjectID == "" || creds.ClientEmail == "" || creds.PrivateKey == "" {
			logger.Warn("fcm credentials missing, push notifications will only be logged")
			return NewLogSender(logger), nil
		}
		return NewFCMSender(ctx, creds, logger)
	default:
		return nil, fmt.Errorf("unknown push provider %q", provider)
	}
}
