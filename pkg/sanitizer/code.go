package sanitizer

import (
	"strings"

	"golang.org/x/text/width"
)

// NormalizeCode folds a user-submitted code to the form codes are issued in.
// Full-width digits and letters typed on CJK keyboards fold to ASCII and
// surrounding whitespace is trimmed. Case is preserved.
func NormalizeCode(code string) string {
	return strings.TrimSpace(width.Fold.String(code))
}

// IsNumeric reports whether s is a non-empty run of ASCII digits.
func IsNumeric(s string) bool {
	return digitsOnlyRegex.MatchString(s)
}
