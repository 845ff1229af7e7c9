package push

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMSender delivers through Firebase Cloud Messaging.
//
// Credentials come from a service account (Firebase Console, Project
// Settings, Service Accounts). The private key usually arrives from .env with
// escaped newlines.
type FCMSender struct {
	client *messaging.Client
	logger *zap.Logger
}

func NewFCMSender(ctx context.Context, creds FCMCredentials, logger *zap.Logger) (*FCMSender, error) {
	privateKey := strings.ReplaceAll(creds.PrivateKey, "\\n", "\n")

	credsJSON := fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, creds.ProjectID, privateKey, creds.ClientEmail)

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON([]byte(credsJSON)))
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	logger.Info("fcm initialized", zap.String("project", creds.ProjectID))
	return &FCMSender{client: client, logger: logger}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg Message) error {
	message := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.client.Send(ctx, message)
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("%w: %w", ErrDeviceNotRegistered, err)
		}
		return fmt.Errorf("fcm send: %w", err)
	}

	s.logger.Debug("fcm message sent", zap.String("message_id", id))
	return nil
}
