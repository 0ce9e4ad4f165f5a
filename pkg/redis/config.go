package redis

import "time"

// Config describes how to reach the Redis server backing the OTP session store.
type Config struct {
	// ConnectionURL in the form redis://:password@localhost:6379/0. Empty disables Redis.
	ConnectionURL  string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
	// KeyPrefix namespaces session records.
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"otpgate:otp:"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}
