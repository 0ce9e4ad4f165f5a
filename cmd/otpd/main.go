package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/otpgate/pkg/channel"
	"github.com/dmitrymomot/otpgate/pkg/config"
	"github.com/dmitrymomot/otpgate/pkg/delivery"
	"github.com/dmitrymomot/otpgate/pkg/httpserver"
	"github.com/dmitrymomot/otpgate/pkg/logger"
	"github.com/dmitrymomot/otpgate/pkg/otp"
	"github.com/dmitrymomot/otpgate/pkg/redis"
	"github.com/dmitrymomot/otpgate/pkg/requestid"
	"github.com/dmitrymomot/otpgate/pkg/stepup"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "otpd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var s settings
	for _, load := range []func() error{
		func() error { return config.Load(&s.app) },
		func() error { return config.Load(&s.log) },
		func() error { return config.Load(&s.http) },
		func() error { return config.Load(&s.redis) },
		func() error { return config.Load(&s.stepup) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	log, err := logger.NewFromConfig(s.log, logger.WithContextExtractors(requestid.LoggerExtractor()))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	catalog, err := channel.LoadCatalogFile(s.app.ChannelsFile)
	if err != nil {
		return err
	}

	store, checks, closeStore, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := stepup.NewMetrics(reg)

	svc := stepup.New(
		otp.NewLifecycle(store,
			otp.WithValidity(s.stepup.ValidityMinutes),
			otp.WithLogger(log.With(logger.Component("otp"))),
		),
		delivery.NewSender(
			delivery.WithLogger(log.With(logger.Component("delivery"))),
			delivery.WithHook(metrics.DeliveryHook()),
		),
		catalog,
		stepup.WithConfig(s.stepup),
		stepup.WithMetrics(metrics),
		stepup.WithLogger(log.With(logger.Component("stepup"))),
	)

	router := newRouter(routerDeps{
		api:          newAPI(svc, newValidator(), log),
		log:          log,
		registry:     reg,
		checks:       checks,
		readyTimeout: s.app.ReadyTimeout,
	})

	srv := httpserver.NewFromConfig(s.http, httpserver.WithLogger(log))
	return srv.Run(ctx, router)
}

// openStore picks Redis when REDIS_URL is set and the in-memory store otherwise.
func openStore(ctx context.Context, s settings) (otp.Store, []httpserver.Check, func(), error) {
	if !s.redis.Enabled() {
		mem := otp.NewMemoryStore(s.app.CleanupInterval)
		slog.InfoContext(ctx, "Using in-memory OTP store")
		return mem, nil, func() { _ = mem.Close() }, nil
	}

	client, err := redis.Connect(ctx, s.redis)
	if err != nil {
		return nil, nil, nil, err
	}
	slog.InfoContext(ctx, "Using Redis OTP store", slog.String("key_prefix", s.redis.KeyPrefix))
	checks := []httpserver.Check{{Name: "redis", Probe: redis.Healthcheck(client)}}
	return otp.NewRedisStore(client, otp.WithKeyPrefix(s.redis.KeyPrefix)), checks, func() { _ = client.Close() }, nil
}
