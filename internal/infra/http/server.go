package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-subscription-admin/internal/config"
)

// Server exposes the operational endpoints: liveness and Prometheus metrics.
type Server struct {
	cfg    *config.Config
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(cfg *config.Config, logger *zerolog.Logger) *Server {
	return &Server{cfg: cfg, log: logger}
}

func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealthCheck)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Ops.Port),
		Handler: mux,
	}

	s.log.Info().Int("port", s.cfg.Ops.Port).Msg("ops HTTP server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}
