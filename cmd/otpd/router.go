package main

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/otpgate/pkg/httpserver"
	"github.com/dmitrymomot/otpgate/pkg/requestid"
)

type routerDeps struct {
	api          *api
	log          *slog.Logger
	registry     *prometheus.Registry
	checks       []httpserver.Check
	readyTimeout time.Duration
}

func newRouter(d routerDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)

	r.Route("/otp", func(r chi.Router) {
		r.Post("/", d.api.issue)
		r.Post("/verify", d.api.verify)
		r.Get("/{sessionID}", d.api.pending)
	})

	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(d.log, d.readyTimeout, d.checks...))
	r.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	return r
}
