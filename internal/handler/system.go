package handler

import (
	"net/http"
	"time"

	"arogyakrishi/internal/geo"
	"arogyakrishi/internal/httputil"
)

const (
	Version     = "0.1.0"
	ServiceName = "ArogyaKrishi Backend"
)

type SystemHandler struct {
	startedAt time.Time
	now       func() time.Time
}

func NewSystemHandler(startedAt time.Time) *SystemHandler {
	return &SystemHandler{startedAt: startedAt, now: time.Now}
}

// Health handles GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := h.now().Sub(h.startedAt).Seconds()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": geo.Round(uptime, 2),
	})
}

// Version handles GET /version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"version": Version,
		"service": ServiceName,
	})
}
