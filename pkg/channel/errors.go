package channel

import "errors"

var (
	ErrUnknownChannel       = errors.New("unknown channel")
	ErrChannelNotConfigured = errors.New("channel not configured")
	ErrInvalidCatalog       = errors.New("invalid channel catalog")
	ErrMissingEndpoint      = errors.New("channel endpoint URL is required")
)
