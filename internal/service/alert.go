package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/metrics"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/push"
	"arogyakrishi/internal/queue"
	"arogyakrishi/internal/repository"
)

const (
	DefaultAlertRadiusKM = 10.0
	DefaultAlertCooldown = 6 * time.Hour
)

// Deduplicator remembers which (user, disease) alerts went out recently.
// The check and the insert are separate statements, so two concurrent
// fan-outs for the same pair can both send.
type Deduplicator struct {
	repo repository.SentAlertRepository
	now  func() time.Time
}

func NewDeduplicator(repo repository.SentAlertRepository) *Deduplicator {
	return &Deduplicator{repo: repo, now: time.Now}
}

// WasAlertSent reports whether an alert for the pair was logged within window.
func (d *Deduplicator) WasAlertSent(ctx context.Context, userID int64, disease string, window time.Duration) (bool, error) {
	sent, err := d.repo.ExistsSince(ctx, userID, disease, d.now().Add(-window))
	if err != nil {
		return false, fmt.Errorf("check sent alert: %w", err)
	}
	return sent, nil
}

// LogAlert records that an alert was delivered.
func (d *Deduplicator) LogAlert(ctx context.Context, userID int64, disease string) (*model.SentAlert, error) {
	alert, err := d.repo.Create(ctx, userID, disease)
	if err != nil {
		return nil, fmt.Errorf("log sent alert: %w", err)
	}
	return alert, nil
}

// AlertNotifier pushes disease advisories to registered devices near a detection.
type AlertNotifier struct {
	users    repository.DeviceUserRepository
	dedup    *Deduplicator
	sender   push.Sender
	radiusKM float64
	cooldown time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

type AlertNotifierConfig struct {
	RadiusKM float64
	Cooldown time.Duration
}

func NewAlertNotifier(
	users repository.DeviceUserRepository,
	dedup *Deduplicator,
	sender push.Sender,
	cfg AlertNotifierConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AlertNotifier {
	if cfg.RadiusKM <= 0 {
		cfg.RadiusKM = DefaultAlertRadiusKM
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultAlertCooldown
	}
	return &AlertNotifier{
		users:    users,
		dedup:    dedup,
		sender:   sender,
		radiusKM: cfg.RadiusKM,
		cooldown: cfg.Cooldown,
		metrics:  m,
		logger:   logger,
	}
}

// NotifyNearby sends one advisory per nearby device unless the same disease
// was already announced to it within the cooldown. Per-device failures are
// logged and counted; only the user lookup can fail the whole call.
func (n *AlertNotifier) NotifyNearby(ctx context.Context, alert model.DetectionAlert) (model.AlertStats, error) {
	var stats model.AlertStats
	if alert.Latitude == nil || alert.Longitude == nil {
		return stats, nil
	}

	center := geo.Point{Lat: *alert.Latitude, Lng: *alert.Longitude}
	candidates, err := n.users.ListNotifiableWithinBox(ctx, geo.BoundingBox(center, n.radiusKM))
	if err != nil {
		return stats, fmt.Errorf("list nearby users: %w", err)
	}
	users := geo.FilterWithinRadius(center, n.radiusKM, candidates)
	stats.Candidates = len(users)

	msg := push.Message{
		Title: model.AlertTitle,
		Body:  fmt.Sprintf(model.AlertBodyTemplate, alert.Disease),
		Data:  map[string]string{"type": "disease_alert", "disease": alert.Disease},
	}

	for _, user := range users {
		if !user.HasToken() {
			continue
		}
		log := n.logger.With(zap.Int64("user_id", user.ID), zap.String("disease", alert.Disease))

		recent, err := n.dedup.WasAlertSent(ctx, user.ID, alert.Disease, n.cooldown)
		if err != nil {
			log.Warn("dedup check failed", zap.Error(err))
			stats.Failed++
			continue
		}
		if recent {
			stats.Skipped++
			continue
		}

		msg.Token = *user.DeviceToken
		if err := n.sender.Send(ctx, msg); err != nil {
			log.Warn("push failed", zap.Error(err))
			stats.Failed++
			continue
		}
		stats.Sent++

		if _, err := n.dedup.LogAlert(ctx, user.ID, alert.Disease); err != nil {
			log.Warn("failed to log sent alert", zap.Error(err))
		}
	}

	n.metrics.RecordAlerts(stats.Sent, stats.Skipped, stats.Failed)
	return stats, nil
}

// AlertDispatcher hands a confident detection to the fan-out.
type AlertDispatcher interface {
	Dispatch(ctx context.Context, alert model.DetectionAlert) error
}

// InlineDispatcher runs the fan-out within the calling request.
type InlineDispatcher struct {
	notifier *AlertNotifier
	logger   *zap.Logger
}

func NewInlineDispatcher(notifier *AlertNotifier, logger *zap.Logger) *InlineDispatcher {
	return &InlineDispatcher{notifier: notifier, logger: logger}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, alert model.DetectionAlert) error {
	stats, err := d.notifier.NotifyNearby(ctx, alert)
	if err != nil {
		return err
	}
	d.logger.Info("alert fan-out done",
		zap.String("disease", alert.Disease),
		zap.Int("candidates", stats.Candidates),
		zap.Int("sent", stats.Sent),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return nil
}

// QueueDispatcher publishes the alert to a Redis stream for the worker pool.
type QueueDispatcher struct {
	publisher queue.Publisher
	stream    string
}

func NewQueueDispatcher(publisher queue.Publisher) *QueueDispatcher {
	return &QueueDispatcher{publisher: publisher, stream: queue.StreamAlerts}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, alert model.DetectionAlert) error {
	if alert.Latitude == nil || alert.Longitude == nil {
		return nil
	}
	event := queue.NewDetectionAlertEvent(alert.DetectionID, alert.Disease, *alert.Latitude, *alert.Longitude)
	if _, err := d.publisher.Publish(ctx, d.stream, event); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}
