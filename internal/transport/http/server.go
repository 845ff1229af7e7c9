package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"go.uber.org/zap"
)

// shutdownTimeout bounds the wait for in-flight requests on shutdown.
const shutdownTimeout = 15 * time.Second

// Server wraps net/http with context-driven graceful shutdown.
type Server struct {
	srv    *stdhttp.Server
	logger *zap.Logger
}

func NewServer(port string, handler stdhttp.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &stdhttp.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      120 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Run serves until ctx is canceled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
