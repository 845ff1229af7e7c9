package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/model"
	"arogyakrishi/internal/service"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
	logger        *zap.Logger
}

func NewDeviceHandler(deviceService *service.DeviceService, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService, logger: logger}
}

// Register handles POST /api/register-device
// Creates or refreshes the device keyed by device_token.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req model.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.deviceService.Register(r.Context(), &req)
	if err != nil {
		if httputil.WriteDomainError(w, err) {
			return
		}
		h.logger.Error("register device failed", zap.Error(err))
		httputil.WriteInternalError(w, "Error registering device")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
