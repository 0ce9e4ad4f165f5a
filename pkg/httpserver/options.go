package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Option adjusts a Server before it runs. Blank or non-positive values are
// ignored so that unset configuration keeps the defaults.
type Option func(*config)

func WithAddr(addr string) Option {
	return func(c *config) {
		if addr != "" {
			c.listen.Addr = addr
		}
	}
}

// WithTimeouts sets the read, write and idle timeouts of the listener.
func WithTimeouts(read, write, idle time.Duration) Option {
	return func(c *config) {
		setPositive(&c.listen.ReadTimeout, read)
		setPositive(&c.listen.WriteTimeout, write)
		setPositive(&c.listen.IdleTimeout, idle)
	}
}

// WithShutdownTimeout bounds how long in-flight requests may drain.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *config) { setPositive(&c.listen.ShutdownTimeout, d) }
}

// WithConfig applies every non-zero field of cfg.
func WithConfig(cfg Config) Option {
	return func(c *config) {
		WithAddr(cfg.Addr)(c)
		WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout)(c)
		WithShutdownTimeout(cfg.ShutdownTimeout)(c)
	}
}

// WithServer runs srv instead of a fresh http.Server. Its Handler is
// replaced; Addr and timeouts already set on it take precedence.
func WithServer(srv *http.Server) Option {
	return func(c *config) {
		if srv != nil {
			c.server = srv
		}
	}
}

// WithLogger sets the logger for lifecycle events. Nil discards them.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithStartHook runs h right before the listener starts.
func WithStartHook(h func(*slog.Logger)) Option {
	return func(c *config) {
		if h != nil {
			c.startHooks = append(c.startHooks, h)
		}
	}
}

// WithStopHook runs h after shutdown completes.
func WithStopHook(h func(*slog.Logger)) Option {
	return func(c *config) {
		if h != nil {
			c.stopHooks = append(c.stopHooks, h)
		}
	}
}

func setPositive(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
