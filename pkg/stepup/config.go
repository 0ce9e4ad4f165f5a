package stepup

import (
	"time"

	"github.com/dmitrymomot/otpgate/pkg/hotp"
	"github.com/dmitrymomot/otpgate/pkg/otp"
)

// Config holds issuance policy read from OTP_* variables.
type Config struct {
	// CodeLength applies when the channel does not set its own.
	CodeLength      int `env:"OTP_CODE_LENGTH" envDefault:"4"`
	ValidityMinutes int `env:"OTP_VALIDITY_MINUTES" envDefault:"5"`
	// DefaultChannel overrides the catalog default when it names a known channel.
	DefaultChannel string `env:"OTP_DEFAULT_CHANNEL"`

	// A session may request ResendBurst codes at once, then one per ResendInterval.
	// A zero interval disables throttling.
	ResendInterval time.Duration `env:"OTP_RESEND_INTERVAL" envDefault:"30s"`
	ResendBurst    int           `env:"OTP_RESEND_BURST" envDefault:"3"`
}

// DefaultConfig mirrors the envDefault values.
func DefaultConfig() Config {
	return Config{
		CodeLength:      hotp.DefaultLength,
		ValidityMinutes: otp.DefaultValidityMinutes,
		ResendInterval:  30 * time.Second,
		ResendBurst:     3,
	}
}

func (c Config) codeLength() int {
	if c.CodeLength > 0 {
		return c.CodeLength
	}
	return hotp.DefaultLength
}
