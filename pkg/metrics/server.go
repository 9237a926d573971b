package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

// Server exposes one registry on /metrics for the background workers.
type Server struct {
	srv  *http.Server
	logg *logger.Logger
}

func NewServer(port string, gatherer prometheus.Gatherer, logg *logger.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logg: logg,
	}
}

// Start serves in the background; a listen failure is logged, not fatal.
func (s *Server) Start(ctx context.Context) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logg.Error(ctx, "metrics server stopped", err)
		}
	}()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
