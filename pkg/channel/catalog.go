package channel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Catalog holds the provider configuration for every channel.
type Catalog struct {
	Default string  `yaml:"default"`
	SMS     *Config `yaml:"sms"`
	Email   *Config `yaml:"email"`
}

// LoadCatalog decodes a YAML catalog and validates every configured channel.
//
//	default: sms
//	sms:
//	  url: https://sms.example.com/send?to=$ctx.num
//	  method: POST
//	  headers: "Authorization:Bearer token,Content-Type:application/json"
//	  payload: '{"to":"$ctx.num","text":"$ctx.msg"}'
//	  mask: {visible: 4, order: backward}
//	email:
//	  url: https://mail.example.com/v1/send
//	  payload: '{"to":"{email}","body":"{message}"}'
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// envRef matches ${NAME} only; bare $ctx.* placeholders are left for rendering.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadCatalogFile reads a catalog from path, replacing ${NAME} references
// with environment variables. Unset variables expand to an empty string.
func LoadCatalogFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	return LoadCatalog(bytes.NewReader(ExpandEnv(raw)))
}

// ExpandEnv replaces ${NAME} references in raw with their environment values.
func ExpandEnv(raw []byte) []byte {
	return envRef.ReplaceAllFunc(raw, func(ref []byte) []byte {
		return []byte(os.Getenv(string(envRef.FindSubmatch(ref)[1])))
	})
}

// Validate requires at least one channel and an endpoint for each configured one.
func (c *Catalog) Validate() error {
	if c.SMS == nil && c.Email == nil {
		return fmt.Errorf("%w: no channels configured", ErrInvalidCatalog)
	}
	if c.Default != "" {
		if _, ok := Parse(c.Default); !ok {
			return fmt.Errorf("%w: unknown default channel %q", ErrInvalidCatalog, c.Default)
		}
	}
	for ch, cfg := range map[Channel]*Config{SMS: c.SMS, Email: c.Email} {
		if cfg == nil {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCatalog, ch, err)
		}
	}
	return nil
}

// Config returns the configuration for ch with its Channel field set.
func (c *Catalog) Config(ch Channel) (Config, error) {
	var cfg *Config
	switch ch {
	case SMS:
		cfg = c.SMS
	case Email:
		cfg = c.Email
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
	if cfg == nil {
		return Config{}, fmt.Errorf("%w: %s", ErrChannelNotConfigured, ch)
	}
	out := *cfg
	out.Channel = ch
	return out, nil
}

// Select applies Select with the catalog's default.
func (c *Catalog) Select(requestParam string) Channel {
	return Select(requestParam, c.Default)
}
