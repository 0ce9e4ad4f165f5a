package channel

import "strings"

// Channel is a delivery medium for one-time codes.
type Channel string

const (
	SMS   Channel = "SMS"
	Email Channel = "EMAIL"
)

// Fallback is used when neither the request nor configuration names a known channel.
const Fallback = SMS

func (c Channel) String() string {
	return string(c)
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c == SMS || c == Email
}

// Parse matches s case-insensitively against the known channels.
func Parse(s string) (Channel, bool) {
	switch Channel(strings.ToUpper(strings.TrimSpace(s))) {
	case SMS:
		return SMS, true
	case Email:
		return Email, true
	default:
		return "", false
	}
}

// Select picks the channel for an issuance.
// The request parameter wins over the configured default, which wins over Fallback.
// Unrecognized values are ignored at their level.
func Select(requestParam, configuredDefault string) Channel {
	if ch, ok := Parse(requestParam); ok {
		return ch
	}
	if ch, ok := Parse(configuredDefault); ok {
		return ch
	}
	return Fallback
}
