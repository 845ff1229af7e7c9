package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"arogyakrishi/internal/handler"
	"arogyakrishi/internal/httputil"
	"arogyakrishi/internal/metrics"
	appmw "arogyakrishi/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	SystemHandler    *handler.SystemHandler
	DetectionHandler *handler.DetectionHandler
	TreatmentHandler *handler.TreatmentHandler
	DeviceHandler    *handler.DeviceHandler
	ChatHandler      *handler.ChatHandler

	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmw.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFound(w, "Route not found")
	})

	r.Get("/health", cfg.SystemHandler.Health)
	r.Get("/version", cfg.SystemHandler.Version)
	if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/detect-image", cfg.DetectionHandler.DetectImage)
		r.Get("/nearby-alerts", cfg.DetectionHandler.NearbyAlerts)

		r.Post("/scan-treatment", cfg.TreatmentHandler.ScanTreatment)
		r.Get("/suggested-treatments", cfg.TreatmentHandler.SuggestedTreatments)

		r.Post("/register-device", cfg.DeviceHandler.Register)

		r.Route("/chat", func(r chi.Router) {
			r.Post("/text", cfg.ChatHandler.Text)
			r.Post("/voice", cfg.ChatHandler.Voice)
			r.Get("/status", cfg.ChatHandler.Status)
			r.Get("/audio/{id}", cfg.ChatHandler.Audio)
		})
	})

	return r
}
