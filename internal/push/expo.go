package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const expoPushURL = "https://exp.host/--/api/v2/push/send"

var (
	// ErrInvalidToken is returned for tokens that are not Expo push tokens.
	ErrInvalidToken = errors.New("invalid push token")
	// ErrDeviceNotRegistered is returned when the provider no longer knows the device.
	ErrDeviceNotRegistered = errors.New("device not registered")
)

// ExpoSender delivers through Expo's Push API, which fans out to APNs and
// FCM. It needs no credentials.
type ExpoSender struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type expoMessage struct {
	To       string            `json:"to"`
	Title    string            `json:"title,omitempty"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

type expoResponse struct {
	Data expoTicket `json:"data"`
}

type expoTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

func NewExpoSender(logger *zap.Logger) *ExpoSender {
	return &ExpoSender{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// IsExpoToken reports whether token has the Expo push token shape.
func IsExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

func (s *ExpoSender) Send(ctx context.Context, msg Message) error {
	if !IsExpoToken(msg.Token) {
		return fmt.Errorf("%w: %s", ErrInvalidToken, redact(msg.Token))
	}

	payload, err := json.Marshal(expoMessage{
		To:       msg.Token,
		Title:    msg.Title,
		Body:     msg.Body,
		Data:     msg.Data,
		Sound:    "default",
		Priority: "high",
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, expoPushURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo api error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var pushResp expoResponse
	if err := json.Unmarshal(body, &pushResp); err != nil {
		// Accepted by Expo; the ticket is only informational.
		s.logger.Warn("failed to parse expo response", zap.Error(err))
		return nil
	}

	ticket := pushResp.Data
	if ticket.Status == "error" {
		if ticket.Details.Error == "DeviceNotRegistered" {
			return fmt.Errorf("%w: %s", ErrDeviceNotRegistered, ticket.Message)
		}
		return fmt.Errorf("expo ticket error: %s (%s)", ticket.Message, ticket.Details.Error)
	}

	s.logger.Debug("expo message sent", zap.String("ticket", ticket.ID))
	return nil
}
