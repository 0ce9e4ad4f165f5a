package sanitizer

import "strings"

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return nonDigitRegex.ReplaceAllString(phone, "")
}

// WithCountryPrefix rewrites a national number with a trunk '0' into
// international form, e.g. 0812345678 with prefix 66 becomes 66812345678.
// Numbers without the leading '0' and empty prefixes leave phone unchanged.
func WithCountryPrefix(phone, prefix string) string {
	prefix = NormalizePhone(prefix)
	if prefix == "" || !strings.HasPrefix(phone, "0") {
		return phone
	}
	return prefix + phone[1:]
}
