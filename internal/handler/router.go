// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ocms-desk/internal/middleware"
)

// Route paths.
const (
	RouteHealth        = "/health"
	RouteHealthLive    = "/health/live"
	RouteVersion       = "/version"
	RouteAPI           = "/api"
	RouteNotifications = "/notifications"
	RouteEvents        = "/events"
	RouteJobs          = "/jobs"
)

// Console is a resource console that can be mounted on the router.
type Console interface {
	Checker
	Routes() http.Handler
}

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger      *slog.Logger
	Health      *HealthHandler
	Ops         *OpsHandler
	RateLimiter *middleware.RateLimiter // optional
	CSRF        middleware.CSRFConfig
	Timeout     time.Duration
	Consoles    []Console
}

// NewRouter builds the console HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders)
	if cfg.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Timeout))
	}

	r.Get(RouteHealth, cfg.Health.Health)
	r.Get(RouteHealthLive, cfg.Health.Liveness)
	r.Get(RouteVersion, cfg.Health.Version)

	r.Route(RouteAPI, func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Middleware())
		}
		r.Use(middleware.CSRF(cfg.CSRF))

		r.Get(RouteNotifications, cfg.Ops.Notifications)
		r.Delete(RouteNotifications+"/{id}", cfg.Ops.DismissNotification)
		r.Get(RouteEvents, cfg.Ops.Events)
		r.Get(RouteJobs, cfg.Ops.Jobs)

		for _, c := range cfg.Consoles {
			r.Mount("/"+c.Slug(), c.Routes())
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
