package sanitizer

import "regexp"

var (
	nonDigitRegex   = regexp.MustCompile(`\D`)
	digitsOnlyRegex = regexp.MustCompile(`^[0-9]+$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)
