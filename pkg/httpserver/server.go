package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/otpgate/pkg/logger"
)

type config struct {
	listen     Config
	server     *http.Server
	logger     *slog.Logger
	startHooks []func(*slog.Logger)
	stopHooks  []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{listen: Config{Addr: ":8080", ShutdownTimeout: 5 * time.Second}}
}

// Server runs an http.Server until its context is cancelled or the process
// receives SIGINT/SIGTERM, then drains in-flight requests.
type Server struct {
	cfg  *config
	once sync.Once

	mu  sync.Mutex
	srv *http.Server
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	cfg.logger = logger.OrDiscard(cfg.logger)
	return &Server{cfg: cfg}
}

// Run serves handler and blocks until shutdown completes.
// Startup failures are returned joined with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	srv, err := s.prepare(handler)
	if err != nil {
		return err
	}
	log := s.cfg.logger

	for _, h := range s.cfg.startHooks {
		h(log)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.InfoContext(ctx, "HTTP server started", slog.String("addr", srv.Addr))

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		log.InfoContext(ctx, "HTTP server shutting down")
		if err := s.Shutdown(context.Background()); err != nil {
			log.ErrorContext(ctx, "HTTP server shutdown failed", logger.Error(err))
		}
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

func (s *Server) prepare(handler http.Handler) (*http.Server, error) {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil, errors.Join(ErrStart, ErrAlreadyRunning)
	}

	srv := s.cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	l := s.cfg.listen
	if srv.Addr == "" {
		srv.Addr = l.Addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = l.ReadTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = l.WriteTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = l.IdleTimeout
	}
	srv.Handler = handler
	s.srv = srv
	return srv, nil
}

// Shutdown stops the server gracefully within the configured shutdown timeout.
// Only the first call has an effect. Failures are joined with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.cfg.listen.ShutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
