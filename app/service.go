package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/kilianp07/alfred/api/ratelimit"
	apisession "github.com/kilianp07/alfred/api/session"
	"github.com/kilianp07/alfred/config"
	coremetrics "github.com/kilianp07/alfred/core/metrics"
	"github.com/kilianp07/alfred/core/session"
	"github.com/kilianp07/alfred/infra/logger"
	"github.com/kilianp07/alfred/infra/metrics"
)

// Service serves the dashboard session API.
type Service struct {
	Manager  *session.Manager
	Router   *mux.Router
	sink     coremetrics.Sink
	log      logger.Logger
	addr     string
	shutdown time.Duration
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	mgr := session.NewManager(session.NewMemoryStore(), sink, logger.New("session"))

	r := mux.NewRouter()
	h := apisession.NewHandler(mgr, logger.New("session_api"))
	if cfg.HTTP.SessionsPerMinute > 0 {
		limiter := ratelimit.New(rate.Limit(float64(cfg.HTTP.SessionsPerMinute)/60), cfg.HTTP.SessionBurst)
		h.CreateLimit = limiter.Middleware
	}
	h.Register(r)
	if cfg.HTTP.MetricsPath != "" {
		r.Handle(cfg.HTTP.MetricsPath, metrics.Handler(gathererFor(metrics.Registerer))).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	return &Service{
		Manager:  mgr,
		Router:   r,
		sink:     sink,
		log:      logg,
		addr:     cfg.HTTP.Address,
		shutdown: time.Duration(cfg.HTTP.ShutdownTimeoutSeconds) * time.Second,
	}, nil
}

func gathererFor(reg prometheus.Registerer) prometheus.Gatherer {
	if g, ok := reg.(prometheus.Gatherer); ok {
		return g
	}
	return prometheus.DefaultGatherer
}

// Run serves HTTP until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until the context is cancelled.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the metrics sinks.
func (s *Service) Close() error {
	if c, ok := s.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
