// Package config loads typed configuration from environment variables.
//
// Load reads the default .env file once (if present, via godotenv) and then
// parses the environment into any struct annotated with caarlos0/env tags.
// Parsed values are cached per type, so packages can call Load for their own
// Config struct without re-parsing:
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
// LoadEnv merges explicit .env files into the environment. Reload and
// ResetCache exist for tests that change the environment between loads.
//
// Errors are sentinels (ErrParsingConfig, ErrLoadingEnvFile, ErrNilPointer)
// joined with the underlying cause; compare them with errors.Is.
package config
