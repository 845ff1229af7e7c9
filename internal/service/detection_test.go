package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/inference"
	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/repository"
)

func fixedPredictor(disease, crop string, confidence float64) *mockPredictor {
	return &mockPredictor{predictFn: func(ctx context.Context, s *inference.Sample) (inference.Prediction, error) {
		return inference.Prediction{Disease: disease, Crop: crop, Confidence: confidence}, nil
	}}
}

type detectionFixture struct {
	predictor  *mockPredictor
	repo       *mockDetectionRepository
	archiver   *mockArchiver
	dispatcher *mockDispatcher
	svc        *DetectionService
}

func newDetectionFixture(pred *mockPredictor, withRepo bool) *detectionFixture {
	f := &detectionFixture{
		predictor:  pred,
		repo:       &mockDetectionRepository{},
		archiver:   &mockArchiver{},
		dispatcher: &mockDispatcher{},
	}
	var repo *mockDetectionRepository
	if withRepo {
		repo = f.repo
	}
	f.svc = NewDetectionService(pred, localization.MustLoad(), nilIfNil(repo), f.archiver, f.dispatcher,
		DetectionConfig{}, nil, zap.NewNop())
	return f
}

// nilIfNil keeps a typed nil pointer from becoming a non-nil interface.
func nilIfNil(r *mockDetectionRepository) repository.DetectionRepository {
	if r == nil {
		return nil
	}
	return r
}

func TestDetect_ConfidentDetectionIsRecorded(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.87654), true)
	catalog := localization.MustLoad()

	resp, err := f.svc.Detect(context.Background(), DetectRequest{
		Image:       leafPNG(t),
		ContentType: "image/png",
		Latitude:    ptr(17.385),
		Longitude:   ptr(78.4867),
		Language:    "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, "hi", resp.Language)
	assert.Equal(t, 0.877, resp.Confidence)
	assert.Equal(t, catalog.DiseaseName("Rice Blast", "hi"), resp.Disease)
	assert.Equal(t, catalog.CropName("Rice", "hi"), resp.Crop)
	assert.Equal(t, catalog.Remedies("Rice Blast", "hi"), resp.Remedies)

	require.Len(t, f.repo.saved, 1)
	saved := f.repo.saved[0]
	assert.Equal(t, "Rice Blast", saved.Disease, "persisted with the English label")
	assert.Equal(t, "Rice", saved.Crop)
	assert.Equal(t, 1, f.archiver.calls)

	require.Len(t, f.dispatcher.alerts, 1)
	assert.Equal(t, "Rice Blast", f.dispatcher.alerts[0].Disease)
	assert.Equal(t, saved.ID, f.dispatcher.alerts[0].DetectionID)
}

func TestDetect_LowConfidenceIsNotRecorded(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.42), true)

	resp, err := f.svc.Detect(context.Background(), DetectRequest{
		Image: leafPNG(t), Latitude: ptr(17.0), Longitude: ptr(78.0), Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.42, resp.Confidence)
	assert.Empty(t, f.repo.saved)
	assert.Empty(t, f.dispatcher.alerts)
	assert.Zero(t, f.archiver.calls)
}

func TestDetect_NoPersistence(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.95), false)

	_, err := f.svc.Detect(context.Background(), DetectRequest{Image: leafPNG(t), Language: "en"})
	require.NoError(t, err)
	assert.Empty(t, f.dispatcher.alerts)
}

func TestDetect_SideEffectFailuresAreSwallowed(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.9), true)
	f.repo.saveFn = func(ctx context.Context, event *model.DetectionEvent) error {
		return errors.New("connection reset")
	}

	resp, err := f.svc.Detect(context.Background(), DetectRequest{Image: leafPNG(t), Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
	assert.Empty(t, f.dispatcher.alerts)

	g := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.9), true)
	g.archiver.err = errors.New("bucket gone")
	g.dispatcher.err = errors.New("redis gone")
	_, err = g.svc.Detect(context.Background(), DetectRequest{Image: leafPNG(t), Language: "en"})
	require.NoError(t, err)
	assert.Len(t, g.dispatcher.alerts, 1)
}

func TestDetect_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     DetectRequest
		wantErr error
	}{
		{name: "unsupported language", req: DetectRequest{Language: "fr"}, wantErr: model.ErrUnsupportedLanguage},
		{name: "latitude out of range", req: DetectRequest{Language: "en", Latitude: ptr(91.0)}, wantErr: model.ErrInvalidCoordinates},
		{name: "latitude NaN", req: DetectRequest{Language: "en", Latitude: ptr(math.NaN()), Longitude: ptr(78.0)}, wantErr: model.ErrInvalidCoordinates},
		{name: "longitude infinite", req: DetectRequest{Language: "en", Latitude: ptr(17.0), Longitude: ptr(math.Inf(1))}, wantErr: model.ErrInvalidCoordinates},
		{name: "text upload", req: DetectRequest{Language: "en", Image: []byte("hello world")}, wantErr: model.ErrInvalidImageType},
		{name: "gif declared", req: DetectRequest{Language: "en", Image: []byte("GIF89a"), ContentType: "image/gif"}, wantErr: model.ErrInvalidImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDetectionFixture(fixedPredictor("Rice Blast", "Rice", 0.9), true)
			_, err := f.svc.Detect(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.predictor.calls, "classifier must not run")
			assert.Empty(t, f.repo.saved)
		})
	}
}

func TestDetect_TooLarge(t *testing.T) {
	pred := fixedPredictor("Rice Blast", "Rice", 0.9)
	svc := NewDetectionService(pred, localization.MustLoad(), nil, nil, nil,
		DetectionConfig{MaxImageSize: 16}, nil, zap.NewNop())

	_, err := svc.Detect(context.Background(), DetectRequest{Image: leafPNG(t), Language: "en"})
	assert.ErrorIs(t, err, model.ErrFileTooLarge)
	assert.Zero(t, pred.calls)
}

func TestDetect_PredictorError(t *testing.T) {
	pred := &mockPredictor{predictFn: func(ctx context.Context, s *inference.Sample) (inference.Prediction, error) {
		return inference.Prediction{}, errors.New("model server down")
	}}
	f := newDetectionFixture(pred, true)

	_, err := f.svc.Detect(context.Background(), DetectRequest{Image: leafPNG(t), Language: "en"})
	assert.ErrorContains(t, err, "model server down")
	assert.Empty(t, f.repo.saved)
}

func TestNearbyAlerts_WithCoordinates(t *testing.T) {
	created := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)
	events := []model.DetectionEvent{
		{ID: 1, Disease: "Rice Blast", Latitude: ptr(17.40), Longitude: ptr(78.50), CreatedAt: created},
		{ID: 2, Disease: "Potato Late Blight", CreatedAt: created},
		{ID: 3, Disease: "Maize Common Rust", Latitude: ptr(17.47), Longitude: ptr(78.575), CreatedAt: created},
	}
	f := newDetectionFixture(fixedPredictor("", "", 0), true)
	f.repo.listWithinBoxFn = func(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error) {
		return events, nil
	}

	resp, err := f.svc.NearbyAlerts(context.Background(), ptr(17.385), ptr(78.4867), 10)
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)

	a := resp.Alerts[0]
	assert.Equal(t, "Rice Blast", a.Disease)
	require.NotNil(t, a.DistanceKM)
	assert.Equal(t, geo.Round(geo.HaversineKM(17.385, 78.4867, 17.40, 78.50), 2), *a.DistanceKM)
	require.NotNil(t, a.Timestamp)
	assert.Equal(t, "2024-06-01T08:30:00Z", *a.Timestamp)
}

func TestNearbyAlerts_WithoutCoordinates(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("", "", 0), true)
	var gotLimit int
	f.repo.listRecentFn = func(ctx context.Context, limit int) ([]model.DetectionEvent, error) {
		gotLimit = limit
		return []model.DetectionEvent{{Disease: "Rice Blast", CreatedAt: time.Now()}}, nil
	}

	resp, err := f.svc.NearbyAlerts(context.Background(), ptr(17.0), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 50, gotLimit)
	require.Len(t, resp.Alerts, 1)
	assert.Nil(t, resp.Alerts[0].DistanceKM)
}

func TestNearbyAlerts_Degrades(t *testing.T) {
	f := newDetectionFixture(fixedPredictor("", "", 0), false)
	resp, err := f.svc.NearbyAlerts(context.Background(), ptr(17.0), ptr(78.0), 10)
	require.NoError(t, err)
	assert.NotNil(t, resp.Alerts)
	assert.Empty(t, resp.Alerts)

	g := newDetectionFixture(fixedPredictor("", "", 0), true)
	g.repo.listWithinBoxFn = func(ctx context.Context, box geo.Box, limit int) ([]model.DetectionEvent, error) {
		return nil, errors.New("timeout")
	}
	resp, err = g.svc.NearbyAlerts(context.Background(), ptr(17.0), ptr(78.0), 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Alerts)
}
