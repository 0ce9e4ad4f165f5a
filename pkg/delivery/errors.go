package delivery

import "errors"

var (
	// ErrConfiguration is fatal and returned from Send; nothing was sent.
	ErrConfiguration = errors.New("invalid delivery configuration")

	// Transport failures are reported through DeliveryResult, never returned.
	ErrTransport = errors.New("delivery transport failure")
	ErrTimeout   = errors.New("delivery request timeout")
	ErrRejected  = errors.New("delivery rejected by provider")
)
