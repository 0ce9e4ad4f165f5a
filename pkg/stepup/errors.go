package stepup

import "errors"

var (
	// ErrInvalidRequest is returned for a request without a session identifier.
	ErrInvalidRequest = errors.New("invalid step-up request")

	// ErrThrottled is returned when a session asks for codes faster than allowed.
	ErrThrottled = errors.New("too many OTP requests")

	// ErrNoDestination is returned when the selected channel has no address for the user.
	ErrNoDestination = errors.New("no destination for selected channel")

	// ErrDeliveryFailed is returned when the provider did not accept the code.
	// Nothing is stored in that case.
	ErrDeliveryFailed = errors.New("otp delivery failed")
)
