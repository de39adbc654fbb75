// Package ops serves the engine's operational endpoints: liveness and
// Prometheus metrics. No public API is exposed.
package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/vantage/pkg/logger"
	"github.com/okian/vantage/pkg/metrics"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server is the ops HTTP listener.
type Server struct {
	srv *http.Server
	log logger.Logger
}

// NewServer builds the listener on addr, exporting the manager's
// metric registry.
func NewServer(addr string, mgr *metrics.Manager, log logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(mgr.Registry(), promhttp.HandlerOpts{}))

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log.Named("ops"),
	}
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start serves in the background until the context is cancelled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.log.Info(ctx, "ops listener starting", logger.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error(ctx, "ops listener failed", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error(context.Background(), "ops shutdown failed", logger.Error(err))
		}
	}()
}
