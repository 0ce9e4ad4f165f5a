package hotp

import (
	"crypto/hmac"
	"crypto/sha1"
	"hash"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLength  = 4 // Digits in a code when nothing else is configured
	DefaultCounter = 2 // Moving factor used for single-shot codes

	MaxNumericLength      = 9
	MaxAlphanumericLength = 16
)

// macFactory builds the keyed hash. Replaced in tests to simulate a missing primitive.
var macFactory = func(key []byte) hash.Hash { return hmac.New(sha1.New, key) }

// doubleDigits maps a digit to the digit sum of its double.
var doubleDigits = [10]int{0, 2, 4, 6, 8, 1, 3, 5, 7, 9}

// Generate derives a counter-keyed one-time code from secret.
// Numeric codes are exactly length digits (length+1 with WithChecksum);
// alphanumeric codes are exactly length characters from [0-9A-Z].
func Generate(secret []byte, counter int64, length int, opts ...Option) (string, error) {
	if len(secret) == 0 {
		return "", ErrInvalidSecret
	}

	o := applyOptions(opts)
	if err := validateLength(length, o.alphanumeric); err != nil {
		return "", err
	}

	sum, err := computeMAC(secret, counter)
	if err != nil {
		return "", err
	}

	if o.alphanumeric {
		return alphanumericCode(sum, length, o.truncationOffset), nil
	}
	return numericCode(sum, length, o.checksum, o.truncationOffset), nil
}

// GenerateCode draws a fresh secret and derives a code at DefaultCounter.
func GenerateCode(length int, opts ...Option) (string, error) {
	secret, err := NewSecret(DefaultSecretLength)
	if err != nil {
		return "", err
	}
	return Generate(secret, DefaultCounter, length, opts...)
}

// Checksum computes the Luhn check digit for the lowest digits of num.
// Doubling starts at the rightmost digit because the check digit is appended after it.
func Checksum(num int64, digits int) int {
	double := true
	total := 0
	for ; digits > 0; digits-- {
		digit := int(num % 10)
		num /= 10
		if double {
			digit = doubleDigits[digit]
		}
		total += digit
		double = !double
	}
	result := total % 10
	if result > 0 {
		result = 10 - result
	}
	return result
}

func validateLength(length int, alphanumeric bool) error {
	limit := MaxNumericLength
	if alphanumeric {
		limit = MaxAlphanumericLength
	}
	if length < 1 || length > limit {
		return ErrInvalidLength
	}
	return nil
}

func computeMAC(secret []byte, counter int64) ([]byte, error) {
	// Big-endian 8-byte counter
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter >>= 8
	}

	mac := macFactory(secret)
	if mac == nil {
		return nil, ErrCryptoUnavailable
	}
	mac.Write(counterBytes)
	sum := mac.Sum(nil)
	if len(sum) < sha1.Size {
		return nil, ErrCryptoUnavailable
	}
	return sum, nil
}

// offsetFor picks the truncation offset. window is the number of bytes read from it.
func offsetFor(sum []byte, pinned, window int) int {
	if pinned >= 0 && pinned < len(sum)-window {
		return pinned
	}
	offset := int(sum[len(sum)-1] & 0x0f)
	if offset+window > len(sum) {
		offset = len(sum) - window
	}
	return offset
}

func binaryAt(sum []byte, offset int) int64 {
	return int64(sum[offset]&0x7f)<<24 |
		int64(sum[offset+1])<<16 |
		int64(sum[offset+2])<<8 |
		int64(sum[offset+3])
}

func numericCode(sum []byte, length int, checksum bool, pinned int) string {
	offset := offsetFor(sum, pinned, 4)
	otp := binaryAt(sum, offset) % int64(math.Pow10(length))

	width := length
	if checksum {
		otp = otp*10 + int64(Checksum(otp, length))
		width++
	}
	return leftPad(strconv.FormatInt(otp, 10), width, '0')
}

func alphanumericCode(sum []byte, length int, pinned int) string {
	offset := offsetFor(sum, pinned, 8)
	first := binaryAt(sum, offset)
	second := binaryAt(sum, offset+4)

	code := strings.ToUpper(strconv.FormatInt(first, 36) + strconv.FormatInt(second, 36))
	code = leftPad(code, length, 'A')
	return code[len(code)-length:]
}

func leftPad(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}
