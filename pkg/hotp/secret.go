package hotp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// DefaultSecretLength is the number of decimal digits in a generated secret.
const DefaultSecretLength = 5

// NewSecret returns length random decimal digits as ASCII bytes.
// It fails closed: an entropy failure never yields a weaker secret.
func NewSecret(length int) ([]byte, error) {
	return newSecret(rand.Reader, length)
}

func newSecret(r io.Reader, length int) ([]byte, error) {
	if length < 1 {
		return nil, ErrInvalidSecret
	}

	ten := big.NewInt(10)
	secret := make([]byte, length)
	for i := range secret {
		n, err := rand.Int(r, ten)
		if err != nil {
			return nil, errors.Join(ErrSecretUnavailable, err)
		}
		secret[i] = byte('0' + n.Int64())
	}
	return secret, nil
}
