package logger

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrInvalidLevel is returned by NewFromConfig for unknown level names.
var ErrInvalidLevel = errors.New("logger: invalid level")

// Config carries logger settings from the environment.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"` // development, staging or production
	Service string `env:"SERVICE_NAME" envDefault:"otpd"`
	Level   string `env:"LOG_LEVEL"`  // overrides the environment preset: debug, info, warn, error
	Format  string `env:"LOG_FORMAT"` // overrides the environment preset: json or text
}

// NewFromConfig builds a logger from the environment preset, then applies
// explicit level and format overrides, then opts.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	base := []Option{WithEnvironment(ParseEnvironment(cfg.Env), cfg.Service)}

	if cfg.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("%w %q", ErrInvalidLevel, cfg.Level)
		}
		base = append(base, WithLevel(lvl))
	}
	if cfg.Format != "" {
		f, err := ParseFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		base = append(base, WithFormat(f))
	}

	return New(append(base, opts...)...), nil
}
