package channel

import (
	"time"

	"github.com/dmitrymomot/otpgate/pkg/sanitizer"
)

const (
	DefaultMaskVisible = 4
	DefaultMaskOrder   = sanitizer.Backward
	DefaultTimeout     = 10 * time.Second
)

// MaskRule controls how destinations are displayed.
// Email destinations always keep the first character and the domain.
type MaskRule struct {
	Visible int             `yaml:"visible"`
	Order   sanitizer.Order `yaml:"order"`
}

// Config describes how to reach one provider over HTTP.
// URL, Headers and Payload are templates, see package httptemplate.
type Config struct {
	Channel Channel `yaml:"-"`

	URL              string   `yaml:"url"`
	Method           string   `yaml:"method"`
	Headers          string   `yaml:"headers"`
	Payload          string   `yaml:"payload"`
	ExpectedResponse string   `yaml:"expected_response"` // status code that means success, e.g. "202"
	SuccessMarker    string   `yaml:"success_marker"`    // substring a 2xx body must contain
	MessageTemplate  string   `yaml:"message_template"`
	PathSuffix       string   `yaml:"path_suffix"`    // appended to the rendered URL
	CountryPrefix    string   `yaml:"country_prefix"` // replaces a leading 0 in SMS destinations
	EscapeURL        bool     `yaml:"escape_url"`     // query-escape values substituted into the URL
	SensitiveValues  []string `yaml:"sensitive_values"`

	CodeLength   int  `yaml:"code_length"`
	Alphanumeric bool `yaml:"alphanumeric"`
	Checksum     bool `yaml:"checksum"`

	Timeout time.Duration `yaml:"timeout"`
	Mask    MaskRule      `yaml:"mask"`
}

// Validate checks the fields a delivery cannot do without.
func (c Config) Validate() error {
	if c.URL == "" {
		return ErrMissingEndpoint
	}
	return nil
}

// RequestTimeout returns the configured timeout or DefaultTimeout.
func (c Config) RequestTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// LengthOr returns the channel's code length, or fallback when unset.
func (c Config) LengthOr(fallback int) int {
	if c.CodeLength > 0 {
		return c.CodeLength
	}
	return fallback
}

// MaskDestination renders dest for display according to the channel.
func (c Config) MaskDestination(dest string) string {
	if c.Channel == Email {
		return sanitizer.MaskEmail(dest)
	}

	visible := c.Mask.Visible
	if visible <= 0 {
		visible = DefaultMaskVisible
	}
	order := c.Mask.Order
	if order == "" {
		order = DefaultMaskOrder
	}
	return sanitizer.MaskMobile(dest, visible, order)
}
