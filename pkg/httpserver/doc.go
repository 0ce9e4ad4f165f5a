// Package httpserver runs the otpd HTTP API with graceful shutdown and
// exposes liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	router.Get("/health/live", httpserver.LivenessHandler())
//	router.Get("/health/ready", httpserver.ReadinessHandler(log, 0,
//		httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Run returns when ctx is cancelled, on SIGINT/SIGTERM, or when the listener
// fails. Shutdown waits for in-flight requests up to the shutdown timeout.
package httpserver
