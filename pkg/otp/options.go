package otp

import (
	"log/slog"
	"time"
)

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithValidity sets the validity window in minutes. Non-positive values are ignored.
func WithValidity(minutes int) Option {
	return func(l *Lifecycle) {
		if minutes > 0 {
			l.validity = minutes
		}
	}
}

// WithClock replaces time.Now, e.g. to test expiry.
func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger. Nil discards logs.
func WithLogger(log *slog.Logger) Option {
	return func(l *Lifecycle) {
		if log != nil {
			l.log = log
		}
	}
}
