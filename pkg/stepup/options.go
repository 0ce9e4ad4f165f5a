package stepup

import "log/slog"

// Option configures a Service.
type Option func(*Service)

// WithConfig replaces DefaultConfig. It also rebuilds the throttle from
// cfg.ResendInterval and cfg.ResendBurst.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
		s.throttle = NewThrottle(cfg.ResendInterval, cfg.ResendBurst)
	}
}

// WithThrottle replaces the throttle built from the config. Nil disables throttling.
func WithThrottle(t *Throttle) Option {
	return func(s *Service) { s.throttle = t }
}

// WithMetrics records issuance and validation counters.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger. Nil discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}
