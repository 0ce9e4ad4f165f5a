package hotp

import "errors"

var (
	ErrInvalidLength     = errors.New("invalid code length")
	ErrInvalidSecret     = errors.New("invalid secret")
	ErrSecretUnavailable = errors.New("failed to generate OTP secret")
	ErrCryptoUnavailable = errors.New("keyed hash primitive unavailable")
)
