package handler

import (
	"math"
	"net/http"

	"go.uber.org/zap"

	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/service"
)

type DetectionHandler struct {
	detectionService *service.DetectionService
	maxImageSize     int64
	logger           *zap.Logger
}

func NewDetectionHandler(detectionService *service.DetectionService, maxImageSize int64, logger *zap.Logger) *DetectionHandler {
	return &DetectionHandler{
		detectionService: detectionService,
		maxImageSize:     maxImageSize,
		logger:           logger,
	}
}

// DetectImage handles POST /api/detect-image
// Classifies the uploaded leaf photo.
//
// Form fields:
//   - image: required, jpeg or png
//
// Query params:
//   - lat, lng: optional reporter location
//   - language: optional response language (default en)
func (h *DetectionHandler) DetectImage(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := coordinates(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	if !parseMultipart(w, r, h.maxImageSize) {
		return
	}
	upload, err := readFormFile(r, "image", h.maxImageSize)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	resp, err := h.detectionService.Detect(r.Context(), service.DetectRequest{
		Image:       upload.Data,
		ContentType: upload.ContentType,
		Latitude:    lat,
		Longitude:   lng,
		Language:    r.URL.Query().Get("language"),
	})
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("detect image failed", zap.String("filename", upload.Filename), zap.Error(err))
		httputil.WriteInternalError(w, "Error processing image")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// NearbyAlerts handles GET /api/nearby-alerts
//
// Query params:
//   - lat, lng: optional; without both the most recent reports are returned
//   - radius: optional search radius in km (default 10)
func (h *DetectionHandler) NearbyAlerts(w http.ResponseWriter, r *http.Request) {
	lat, lng, err := coordinates(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	radius := service.DefaultAlertRadiusKM
	if v, err := optionalFloat(r.URL.Query().Get("radius"), "radius"); err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	} else if v != nil {
		if !(*v > 0) || math.IsInf(*v, 1) {
			httputil.WriteBadRequest(w, "radius must be positive")
			return
		}
		radius = *v
	}

	resp, err := h.detectionService.NearbyAlerts(r.Context(), lat, lng, radius)
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("nearby alerts failed", zap.Error(err))
		httputil.WriteInternalError(w, "Error retrieving nearby alerts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
