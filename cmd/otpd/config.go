package main

import (
	"time"

	"github.com/dmitrymomot/otpgate/pkg/httpserver"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/redis"
	"github.com/dmitrymomot/otpgate/pkg/stepup"
)

type appConfig struct {
	ChannelsFile    string        `env:"CHANNELS_FILE" envDefault:"channels.yaml"`
	CleanupInterval time.Duration `env:"OTP_STORE_CLEANUP_INTERVAL" envDefault:"1m"`
	ReadyTimeout    time.Duration `env:"HEALTH_CHECK_TIMEOUT" envDefault:"2s"`
}

type settings struct {
	app    appConfig
	log    logger.Config
	http   httpserver.Config
	redis  redis.Config
	stepup stepup.Config
}
