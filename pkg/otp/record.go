package otp

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/otpgate/pkg/channel"
)

// DefaultValidityMinutes is how long an issued code stays acceptable.
const DefaultValidityMinutes = 5

// Record is the pending code stored for a session.
type Record struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	IssuedAt        time.Time       `json:"issued_at"`
	ValidityMinutes int             `json:"validity_minutes"`
	Channel         channel.Channel `json:"channel"`
	Destination     string          `json:"destination"`
}

// Validity returns the validity window as a duration.
func (r Record) Validity() time.Duration {
	return time.Duration(r.ValidityMinutes) * time.Minute
}

// ExpiresAt is the last instant at which the code is still accepted.
func (r Record) ExpiresAt() time.Time {
	return r.IssuedAt.Add(r.Validity())
}

// Expired reports whether more than the validity window has elapsed at now.
// A code submitted exactly at ExpiresAt is still valid.
func (r Record) Expired(now time.Time) bool {
	return now.Sub(r.IssuedAt) > r.Validity()
}
