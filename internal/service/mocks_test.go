package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/inference"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/push"
)

// =============================================================================
// MOCK COLLABORATORS
// =============================================================================

type mockDetectionRepository struct {
	saveFn          func(ctx context.Context, event *model.DetectionEvent) error
	listWithinBoxFn func(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error)
	listRecentFn    func(ctx context.Context, limit int) ([]model.DetectionEvent, error)
	setImageKeyFn   func(ctx context.Context, id int64, key string) error

	saved []*model.DetectionEvent
}

func (m *mockDetectionRepository) Save(ctx context.Context, event *model.DetectionEvent) error {
	m.saved = append(m.saved, event)
	if m.saveFn != nil {
		return m.saveFn(ctx, event)
	}
	event.ID = int64(len(m.saved))
	event.CreatedAt = time.Now()
	return nil
}

func (m *mockDetectionRepository) ListWithinBox(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error) {
	if m.listWithinBoxFn != nil {
		return m.listWithinBoxFn(ctx, box, limit)
	}
	return nil, nil
}

func (m *mockDetectionRepository) ListRecent(ctx context.Context, limit int) ([]model.DetectionEvent, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDetectionRepository) SetImageKey(ctx context.Context, id int64, key string) error {
	if m.setImageKeyFn != nil {
		return m.setImageKeyFn(ctx, id, key)
	}
	return nil
}

type mockDeviceUserRepository struct {
	upsertFn   func(ctx context.Context, user *model.DeviceUser) error
	listFn     func(ctx context.Context, box geo.Box) ([]model.DeviceUser, error)
	upsertCall []*model.DeviceUser
}

func (m *mockDeviceUserRepository) Upsert(ctx context.Context, user *model.DeviceUser) error {
	m.upsertCall = append(m.upsertCall, user)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, user)
	}
	return nil
}

func (m *mockDeviceUserRepository) ListNotifiableWithinBox(ctx context.Context, box geo.Box) ([]model.DeviceUser, error) {
	if m.listFn != nil {
		return m.listFn(ctx, box)
	}
	return nil, nil
}

// memorySentAlerts is a SentAlertRepository over a slice.
type memorySentAlerts struct {
	mu     sync.Mutex
	alerts []model.SentAlert
	clock  func() time.Time
}

func (m *memorySentAlerts) ExistsSince(ctx context.Context, userID int64, disease string, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.UserID == userID && a.Disease == disease && !a.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memorySentAlerts) Create(ctx context.Context, userID int64, disease string) (*model.SentAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if m.clock != nil {
		now = m.clock()
	}
	a := model.SentAlert{ID: int64(len(m.alerts) + 1), UserID: userID, Disease: disease, SentAt: now}
	m.alerts = append(m.alerts, a)
	return &a, nil
}

type mockSender struct {
	sendFn func(ctx context.Context, msg push.Message) error
	sent   []push.Message
}

func (m *mockSender) Send(ctx context.Context, msg push.Message) error {
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

type mockPredictor struct {
	predictFn func(ctx context.Context, s *inference.Sample) (inference.Prediction, error)
	calls     int
}

func (m *mockPredictor) Predict(ctx context.Context, s *inference.Sample) (inference.Prediction, error) {
	m.calls++
	return m.predictFn(ctx, s)
}

type mockDispatcher struct {
	alerts []model.DetectionAlert
	err    error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, alert model.DetectionAlert) error {
	m.alerts = append(m.alerts, alert)
	return m.err
}

type mockArchiver struct {
	calls int
	err   error
}

func (m *mockArchiver) ArchiveImage(ctx context.Context, data []byte) (*model.UploadResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &model.UploadResult{Key: "detections/x.jpg", URL: "https://cdn.test/detections/x.jpg"}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func ptr[T any](v T) *T { return &v }

func leafPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for x := 0; x < 32; x++ {
		for y := 0; y < 32; y++ {
			img.Set(x, y, color.NRGBA{R: 30, G: uint8(100 + x), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
