// Package rest exposes the observability surface of the scrape engine:
// run history, listing queries, digest flush triggers, health and metrics.
package rest

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BerkanHRGL/schadeautos/internal/core/port"
)

type Server struct {
	httpServer *http.Server
}

func NewServer(httpPort string, handlers *Handlers, logger port.LoggerPort, registry *prometheus.Registry) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + httpPort,
			Handler: NewRouter(handlers, logger, registry),
		},
	}
}

// NewRouter builds the route tree; split out so tests can drive it with
// httptest without binding a port.
func NewRouter(handlers *Handlers, logger port.LoggerPort, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs", handlers.ListRuns)
		r.Get("/runs/latest", handlers.LatestRuns)
		r.Get("/listings", handlers.QueryListings)
		r.Get("/listings/{id}", handlers.GetListing)
		r.Post("/digests/flush", handlers.FlushDigests)
	})

	r.Get("/healthz", handlers.Health)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
