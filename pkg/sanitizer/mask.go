package sanitizer

import "strings"

// Order selects which end of a value stays visible when masking.
type Order string

const (
	// Forward keeps the leading characters visible.
	Forward Order = "forward"
	// Backward keeps the trailing characters visible.
	Backward Order = "backward"
)

// MaskPlaceholder replaces sensitive values inside free text.
const MaskPlaceholder = "***"

// MaskEmail keeps the first character of the local part and the full domain.
// Local parts of two characters or fewer are too short to hide and are returned unchanged,
// as are strings that are not a single local@domain pair.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 || strings.Count(email, "@") != 1 {
		return email
	}

	local := []rune(email[:at])
	if len(local) <= 2 {
		return email
	}
	return string(local[0]) + MaskPlaceholder + email[at:]
}

// MaskMobile reveals visible characters of value and replaces the rest with '*'.
// Backward keeps the tail visible; any other order keeps the head.
func MaskMobile(value string, visible int, order Order) string {
	runes := []rune(value)
	n := len(runes)
	visible = min(max(visible, 0), n)
	hidden := strings.Repeat("*", n-visible)

	if order == Backward {
		return hidden + string(runes[n-visible:])
	}
	return string(runes[:visible]) + hidden
}

// MaskValues replaces every occurrence of each non-empty value in content with MaskPlaceholder.
func MaskValues(content string, values ...string) string {
	if content == "" {
		return content
	}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			content = strings.ReplaceAll(content, v, MaskPlaceholder)
		}
	}
	return content
}

// TruncateForLog removes line breaks and caps s at limit bytes so provider
// responses cannot inject fake log lines.
func TruncateForLog(s string, limit int) string {
	s = whitespaceRegex.ReplaceAllString(s, " ")
	if limit > 0 && len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
