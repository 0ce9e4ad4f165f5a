package delivery

import (
	"log/slog"
	"net/http"
)

// Option configures a Sender.
type Option func(*Sender)

// WithHTTPClient replaces the pooled default client, e.g. to add a proxy.
// Per-call timeouts still come from the channel configuration.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Sender) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets the logger for delivery diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sender) {
		if l != nil {
			s.log = l
		}
	}
}

// WithUserAgent overrides the User-Agent header sent to providers.
func WithUserAgent(ua string) Option {
	return func(s *Sender) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHook registers a callback invoked after every delivery call.
func WithHook(h Hook) Option {
	return func(s *Sender) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}
