package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/inference"
	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/metrics"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/repository"
	"arogyakrishi/internal/storage"
)

const (
	DefaultConfidenceThreshold = 0.5
	// recentAlertsLimit bounds the alert list when the caller sends no coordinates.
	recentAlertsLimit = 50
	// nearbyAlertsLimit bounds the rows read for one radius query.
	nearbyAlertsLimit = 500
)

// DetectRequest is one uploaded leaf image plus optional context.
type DetectRequest struct {
	Image       []byte
	ContentType string
	Latitude    *float64
	Longitude   *float64
	Language    string
}

type DetectionConfig struct {
	MaxImageSize        int64
	ConfidenceThreshold float64
}

// DetectionService classifies images and records confident detections.
// The repository, archiver and dispatcher are optional; nil disables the
// corresponding side effect.
type DetectionService struct {
	predictor  inference.Predictor
	catalog    *localization.Catalog
	detections repository.DetectionRepository
	archiver   storage.Archiver
	dispatcher AlertDispatcher
	cfg        DetectionConfig
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewDetectionService(
	predictor inference.Predictor,
	catalog *localization.Catalog,
	detections repository.DetectionRepository,
	archiver storage.Archiver,
	dispatcher AlertDispatcher,
	cfg DetectionConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *DetectionService {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = model.DefaultMaxImageSizeBytes
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return &DetectionService{
		predictor:  predictor,
		catalog:    catalog,
		detections: detections,
		archiver:   archiver,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}
}

// Detect runs the classifier on req.Image and returns localized results.
// Persistence, archiving and alerting never fail the request.
func (s *DetectionService) Detect(ctx context.Context, req DetectRequest) (*model.DetectImageResponse, error) {
	lang, err := localization.ValidateLanguage(req.Language)
	if err != nil {
		s.metrics.RecordDetection("rejected")
		return nil, err
	}
	if err := validateCoordinates(req.Latitude, req.Longitude); err != nil {
		s.metrics.RecordDetection("rejected")
		return nil, err
	}
	if _, err := storage.ValidateImage(req.Image, req.ContentType, s.cfg.MaxImageSize); err != nil {
		s.metrics.RecordDetection("rejected")
		return nil, err
	}

	sample, err := inference.Preprocess(req.Image)
	if err != nil {
		s.metrics.RecordDetection(metrics.ResultError)
		return nil, fmt.Errorf("preprocess image: %w", err)
	}

	start := time.Now()
	pred, err := s.predictor.Predict(ctx, sample)
	s.metrics.ObserveInference(time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordDetection(metrics.ResultError)
		return nil, fmt.Errorf("predict: %w", err)
	}

	s.logger.Info("detection",
		zap.String("crop", pred.Crop),
		zap.String("disease", pred.Disease),
		zap.Float64("confidence", pred.Confidence),
		zap.String("language", lang),
	)

	if s.detections != nil && pred.Confidence >= s.cfg.ConfidenceThreshold {
		s.record(ctx, req, pred)
	}

	s.metrics.RecordDetection(metrics.ResultSuccess)
	return &model.DetectImageResponse{
		Crop:       s.catalog.CropName(pred.Crop, lang),
		Disease:    s.catalog.DiseaseName(pred.Disease, lang),
		Confidence: geo.Round(pred.Confidence, 3),
		Remedies:   s.catalog.Remedies(pred.Disease, lang),
		Language:   lang,
	}, nil
}

// record saves the event with English labels, archives the image and
// dispatches alerts. Failures are logged only.
func (s *DetectionService) record(ctx context.Context, req DetectRequest, pred inference.Prediction) {
	event := &model.DetectionEvent{
		Crop:       pred.Crop,
		Disease:    pred.Disease,
		Confidence: pred.Confidence,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if err := s.detections.Save(ctx, event); err != nil {
		s.logger.Warn("failed to save detection event", zap.Error(err))
		return
	}
	s.metrics.RecordDetection("persisted")

	if s.archiver != nil {
		res, err := s.archiver.ArchiveImage(ctx, req.Image)
		if err != nil {
			s.logger.Warn("failed to archive detection image", zap.Int64("detection_id", event.ID), zap.Error(err))
		} else if err := s.detections.SetImageKey(ctx, event.ID, res.Key); err != nil {
			s.logger.Warn("failed to store image key", zap.Int64("detection_id", event.ID), zap.Error(err))
		}
	}

	if s.dispatcher != nil {
		alert := model.DetectionAlert{
			DetectionID: event.ID,
			Disease:     pred.Disease,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		}
		if err := s.dispatcher.Dispatch(ctx, alert); err != nil {
			s.logger.Warn("failed to dispatch alerts", zap.Int64("detection_id", event.ID), zap.Error(err))
		}
	}
}

// NearbyAlerts lists recent detections around (lat, lng). Without both
// coordinates it returns the most recent detections with no distance.
// Repository failures produce an empty list.
func (s *DetectionService) NearbyAlerts(ctx context.Context, lat, lng *float64, radiusKM float64) (*model.NearbyAlertsResponse, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	resp := &model.NearbyAlertsResponse{Alerts: []model.NearbyAlert{}}
	if s.detections == nil {
		return resp, nil
	}
	if radiusKM <= 0 {
		radiusKM = DefaultAlertRadiusKM
	}

	if lat == nil || lng == nil {
		events, err := s.detections.ListRecent(ctx, recentAlertsLimit)
		if err != nil {
			s.logger.Warn("failed to list recent detections", zap.Error(err))
			return resp, nil
		}
		for _, e := range events {
			resp.Alerts = append(resp.Alerts, toNearbyAlert(e, nil))
		}
		return resp, nil
	}

	center := geo.Point{Lat: *lat, Lng: *lng}
	events, err := s.detections.ListWithinBox(ctx, geo.BoundingBox(center, radiusKM), nearbyAlertsLimit)
	if err != nil {
		s.logger.Warn("failed to list nearby detections", zap.Error(err))
		return resp, nil
	}
	for _, e := range geo.FilterWithinRadius(center, radiusKM, events) {
		d := geo.Round(center.DistanceKM(geo.Point{Lat: *e.Latitude, Lng: *e.Longitude}), 2)
		resp.Alerts = append(resp.Alerts, toNearbyAlert(e, &d))
	}
	return resp, nil
}

func toNearbyAlert(e model.DetectionEvent, distance *float64) model.NearbyAlert {
	alert := model.NearbyAlert{Disease: e.Disease, DistanceKM: distance}
	if !e.CreatedAt.IsZero() {
		ts := e.CreatedAt.UTC().Format(time.RFC3339)
		alert.Timestamp = &ts
	}
	return alert
}

// validateCoordinates accepts absent values and rejects non-finite or
// out-of-range ones.
func validateCoordinates(lat, lng *float64) error {
	if lat != nil && !inRange(*lat, 90) {
		return fmt.Errorf("%w: latitude %v", model.ErrInvalidCoordinates, *lat)
	}
	if lng != nil && !inRange(*lng, 180) {
		return fmt.Errorf("%w: longitude %v", model.ErrInvalidCoordinates, *lng)
	}
	return nil
}

func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
