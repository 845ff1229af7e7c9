package service

import (
	"context"

	"go.uber.org/zap"

	"arogyakrishi/internal/localization"
	"arogyakrishi/internal/metrics"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/overpass"
	"arogyakrishi/internal/storage"
)

// StoreFinder looks up agricultural supply shops near a point.
type StoreFinder interface {
	Nearby(ctx context.Context, lat, lng float64, radiusM, maxResults int) ([]model.PesticideStore, error)
}

type TreatmentConfig struct {
	MaxImageSize    int64
	StoreRadiusM    int
	StoreMaxResults int
}

// TreatmentService answers remedy questions and checks scanned products.
type TreatmentService struct {
	catalog *localization.Catalog
	stores  StoreFinder
	cfg     TreatmentConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewTreatmentService(catalog *localization.Catalog, stores StoreFinder, cfg TreatmentConfig, m *metrics.Metrics, logger *zap.Logger) *TreatmentService {
	if cfg.MaxImageSize <= 0 {
		cfg.MaxImageSize = model.DefaultMaxImageSizeBytes
	}
	if cfg.StoreRadiusM <= 0 {
		cfg.StoreRadiusM = overpass.DefaultRadiusM
	}
	if cfg.StoreMaxResults <= 0 {
		cfg.StoreMaxResults = overpass.DefaultMaxResults
	}
	return &TreatmentService{catalog: catalog, stores: stores, cfg: cfg, metrics: m, logger: logger}
}

// SuggestedTreatments returns localized remedies and, when both coordinates
// are given, the nearest shops. A failed shop lookup yields no shops.
func (s *TreatmentService) SuggestedTreatments(ctx context.Context, disease, language string, lat, lng *float64) (*model.SuggestedTreatmentsResponse, error) {
	lang, err := localization.ValidateLanguage(language)
	if err != nil {
		return nil, err
	}
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	label := s.catalog.NormalizeDisease(disease)
	resp := &model.SuggestedTreatmentsResponse{
		Disease:  s.catalog.DiseaseName(label, lang),
		Language: lang,
		Remedies: s.catalog.Remedies(label, lang),
		Stores:   []model.PesticideStore{},
	}

	if lat != nil && lng != nil && s.stores != nil {
		stores, err := s.stores.Nearby(ctx, *lat, *lng, s.cfg.StoreRadiusM, s.cfg.StoreMaxResults)
		switch {
		case err != nil:
			s.logger.Warn("nearby store lookup failed", zap.Error(err))
			s.metrics.RecordStoreLookup(metrics.ResultError)
		case len(stores) == 0:
			s.metrics.RecordStoreLookup(metrics.ResultEmpty)
		default:
			resp.Stores = stores
			s.metrics.RecordStoreLookup(metrics.ResultSuccess)
		}
	}
	return resp, nil
}

// ScanTreatment validates the uploaded product photo and reports whether
// the labelled item is a known treatment for disease.
func (s *TreatmentService) ScanTreatment(ctx context.Context, image []byte, contentType, disease string, itemLabel *string, language string) (*model.ScanTreatmentResponse, error) {
	lang, err := localization.ValidateLanguage(language)
	if err != nil {
		return nil, err
	}
	if _, err := storage.ValidateImage(image, contentType, s.cfg.MaxImageSize); err != nil {
		return nil, err
	}

	resp := s.catalog.EvaluateTreatment(disease, itemLabel, lang)
	s.logger.Debug("scan treatment",
		zap.String("disease", disease),
		zap.Bool("will_cure", resp.WillCure),
	)
	return &resp, nil
}
