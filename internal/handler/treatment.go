package handler

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/service"
)

type TreatmentHandler struct {
	treatmentService *service.TreatmentService
	maxImageSize     int64
	logger           *zap.Logger
}

func NewTreatmentHandler(treatmentService *service.TreatmentService, maxImageSize int64, logger *zap.Logger) *TreatmentHandler {
	return &TreatmentHandler{
		treatmentService: treatmentService,
		maxImageSize:     maxImageSize,
		logger:           logger,
	}
}

// SuggestedTreatments handles GET /api/suggested-treatments
//
// Query params:
//   - disease: required, English or localized name
//   - language: optional (default en)
//   - lat, lng: optional; both are needed for nearby shops
func (h *TreatmentHandler) SuggestedTreatments(w http.ResponseWriter, r *http.Request) {
	disease := strings.TrimSpace(r.URL.Query().Get("disease"))
	if disease == "" {
		httputil.WriteBadRequest(w, "disease is required")
		return
	}
	lat, lng, err := coordinates(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	resp, err := h.treatmentService.SuggestedTreatments(r.Context(), disease, r.URL.Query().Get("language"), lat, lng)
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("suggested treatments failed", zap.String("disease", disease), zap.Error(err))
		httputil.WriteInternalError(w, "Error retrieving suggested treatments")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// ScanTreatment handles POST /api/scan-treatment
//
// Form fields:
//   - image: required photo of the product
//   - disease: required
//   - item_label: optional product name read from the package
//   - language: optional (default en)
func (h *TreatmentHandler) ScanTreatment(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, h.maxImageSize) {
		return
	}

	disease := strings.TrimSpace(r.FormValue("disease"))
	if disease == "" {
		httputil.WriteBadRequest(w, "disease is required")
		return
	}
	var itemLabel *string
	if _, ok := r.MultipartForm.Value["item_label"]; ok {
		v := r.FormValue("item_label")
		itemLabel = &v
	}

	upload, err := readFormFile(r, "image", h.maxImageSize)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	resp, err := h.treatmentService.ScanTreatment(r.Context(), upload.Data, upload.ContentType, disease, itemLabel, r.FormValue("language"))
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("scan treatment failed", zap.Error(err))
		httputil.WriteInternalError(w, "Error evaluating treatment")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
