package logger

import (
	"log/slog"
	"time"
)

// Attribute keys shared by every otpd component.
const (
	KeyError       = "error"
	KeySessionID   = "session_id"
	KeyRecordID    = "record_id"
	KeyRequestID   = "request_id"
	KeyChannel     = "channel"
	KeyDestination = "destination"
	KeyOutcome     = "outcome"
	KeyStatusCode  = "status_code"
	KeyDuration    = "duration"
	KeyComponent   = "component"
)

// optional yields an empty attribute for the zero string, which slog drops.
func optional(key, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(key, value)
}

// Error logs err under "error". Nil yields an empty attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

func SessionID(id string) slog.Attr { return optional(KeySessionID, id) }
func RecordID(id string) slog.Attr  { return optional(KeyRecordID, id) }
func RequestID(id string) slog.Attr { return optional(KeyRequestID, id) }

func Channel(name string) slog.Attr { return slog.String(KeyChannel, name) }

// Destination takes an already masked phone number or address.
func Destination(masked string) slog.Attr { return slog.String(KeyDestination, masked) }

// Outcome takes a validation outcome name such as "expired".
func Outcome(kind string) slog.Attr { return slog.String(KeyOutcome, kind) }

// StatusCode logs a provider HTTP status. Zero means no response arrived and
// yields an empty attribute.
func StatusCode(code int) slog.Attr {
	if code == 0 {
		return slog.Attr{}
	}
	return slog.Int(KeyStatusCode, code)
}

func Duration(d time.Duration) slog.Attr { return slog.Duration(KeyDuration, d) }

func Component(name string) slog.Attr { return slog.String(KeyComponent, name) }
