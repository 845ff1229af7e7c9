package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"arogyakrishi/internal/model"
	"arogyakrishi/internal/queue"
)

// AlertNotifier fans a detection out to nearby devices.
type AlertNotifier interface {
	NotifyNearby(ctx context.Context, alert model.DetectionAlert) (model.AlertStats, error)
}

// Handler processes alert events from the queue.
type Handler struct {
	notifier AlertNotifier
	logger   *zap.Logger
}

func NewHandler(notifier AlertNotifier, logger *zap.Logger) *Handler {
	return &Handler{notifier: notifier, logger: logger}
}

// HandleEvent routes an event by type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.AlertEvent) error {
	startTime := time.Now()

	switch event.Type {
	case queue.EventDetectionAlert:
		stats, err := h.handleDetectionAlert(ctx, event)
		if err != nil {
			return err
		}
		h.logger.Info("alert fan-out done",
			zap.String("disease", event.Disease),
			zap.Int64("detection_id", event.DetectionID),
			zap.Int("sent", stats.Sent),
			zap.Int("skipped", stats.Skipped),
			zap.Int("failed", stats.Failed),
			zap.Duration("duration", time.Since(startTime)),
		)
		return nil
	default:
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

func (h *Handler) handleDetectionAlert(ctx context.Context, event queue.AlertEvent) (model.AlertStats, error) {
	lat, lng := event.Latitude, event.Longitude
	stats, err := h.notifier.NotifyNearby(ctx, model.DetectionAlert{
		DetectionID: event.DetectionID,
		Disease:     event.Disease,
		Latitude:    &lat,
		Longitude:   &lng,
	})
	if err != nil {
		return stats, fmt.Errorf("notify nearby: %w", err)
	}
	return stats, nil
}
