// Package hotp derives short one-time codes with the HMAC-SHA1 counter
// scheme from RFC 4226.
//
// Codes are numeric by default. WithAlphanumeric switches to an uppercase
// base-36 alphabet and WithChecksum appends a Luhn check digit to numeric
// codes. Secrets are short strings of random decimal digits created by
// NewSecret for a single issuance.
//
// The package fails closed: if the entropy source or the keyed hash is
// unavailable, Generate and NewSecret return an error instead of falling back
// to a weaker code.
//
// # Usage
//
//	secret, err := hotp.NewSecret(hotp.DefaultSecretLength)
//	if err != nil {
//		return err
//	}
//	code, err := hotp.Generate(secret, hotp.DefaultCounter, 6)
//
// GenerateCode does both steps at once.
package hotp
