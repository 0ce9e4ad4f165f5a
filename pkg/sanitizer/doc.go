// Package sanitizer holds the small string helpers used around one-time codes:
// masking destinations for display, scrubbing configured secrets out of
// provider responses, normalizing phone numbers and folding user input.
//
//	sanitizer.MaskEmail("john@example.com")                   // j***@example.com
//	sanitizer.MaskMobile("0812345678", 4, sanitizer.Backward) // ******5678
//	sanitizer.WithCountryPrefix("0812345678", "66")           // 66812345678
//	sanitizer.NormalizeCode("１２３４")                         // 1234
package sanitizer
