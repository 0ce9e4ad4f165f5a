package hotp

// Option configures a single code derivation.
type Option func(*options)

type options struct {
	alphanumeric     bool
	checksum         bool
	truncationOffset int
}

func defaultOptions() *options {
	return &options{truncationOffset: -1}
}

// WithAlphanumeric switches derivation to the [0-9A-Z] alphabet.
func WithAlphanumeric() Option {
	return func(o *options) { o.alphanumeric = true }
}

// WithChecksum appends a Luhn check digit to numeric codes.
// The returned code is one character longer than the requested length.
// Alphanumeric codes ignore this option.
func WithChecksum() Option {
	return func(o *options) { o.checksum = true }
}

// WithTruncationOffset pins the truncation offset into the MAC.
// Out of range values (including negative ones) select dynamic truncation.
func WithTruncationOffset(offset int) Option {
	return func(o *options) { o.truncationOffset = offset }
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}
