// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command ocms-desk runs the moderation console for the content service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/ocms-desk/internal/config"
	"github.com/olegiv/ocms-desk/internal/console"
	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/handler"
	"github.com/olegiv/ocms-desk/internal/imaging"
	"github.com/olegiv/ocms-desk/internal/logging"
	"github.com/olegiv/ocms-desk/internal/middleware"
	"github.com/olegiv/ocms-desk/internal/model"
	"github.com/olegiv/ocms-desk/internal/notify"
	"github.com/olegiv/ocms-desk/internal/scheduler"
	"github.com/olegiv/ocms-desk/internal/version"
)

// Build-time variables injected via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = ""
	appBuildTime = ""
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before the environment")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "ocms-desk - moderation console for reviews, FAQs, influencers and blog posts\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DESK_API_BASE_URL    Content service base URL (default: http://localhost:4000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DESK_SERVER_PORT     Console port (default: 8090)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DESK_ENV             Environment: development|production|test (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DESK_LOG_LEVEL       debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OCMS_DESK_NOTIFY_TTL      Notification lifetime (default: 3s)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}.Resolve()
	if *showVersion {
		_, _ = fmt.Printf("ocms-desk %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(*envFile, info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(envFile string, info version.Info) error {
	// A missing dotenv file is fine; the environment alone is enough.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	events := logging.NewEventLog(logging.DefaultEventCapacity)
	logger := logging.New(os.Stdout, cfg.IsDevelopment(), cfg.SlogLevel(), events)
	slog.SetDefault(logger)

	feedOpts := []notify.Option{notify.WithTTL(cfg.NotifyTTL)}
	if cfg.NotifySingleSlot {
		feedOpts = append(feedOpts, notify.WithSingleSlot())
	}
	feed := notify.NewFeed(feedOpts...)

	clientOpts := []gateway.Option{
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		gateway.WithLogger(logger),
		gateway.WithUserAgent("ocms-desk/" + info.Version),
	}
	if cfg.APIThrottled() {
		// Each client gets its own limiter.
		clientOpts = append(clientOpts, gateway.WithRateLimit(cfg.APIRPS, cfg.APIBurst))
	}

	reviews, err := newShell[model.Review](cfg.APIBaseURL, cfg.ReviewPath, console.Reviews, feed, logger, clientOpts)
	if err != nil {
		return err
	}
	faqs, err := newShell[model.FAQ](cfg.APIBaseURL, cfg.FAQPath, console.FAQs, feed, logger,
		append(clientOpts, gateway.WithEnvelope("faq")))
	if err != nil {
		return err
	}
	influencers, err := newShell[model.Influencer](cfg.APIBaseURL, cfg.InfluencerPath, console.Influencers, feed, logger, clientOpts)
	if err != nil {
		return err
	}
	blogs, err := newShell[model.BlogPost](cfg.APIBaseURL, cfg.BlogPath, console.Blogs, feed, logger, clientOpts)
	if err != nil {
		return err
	}

	mountCtx, cancelMount := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	mount(mountCtx, logger, reviews.Mount, faqs.Mount, influencers.Mount, blogs.Mount)
	cancelMount()

	images := imaging.NewProcessor(imaging.DefaultPreviewSize)
	maxUpload := cfg.UploadMaxBytes()
	consoles := []handler.Console{
		handler.NewResourceHandler(reviews, handler.DecodeReview, images, "image", maxUpload, logger),
		handler.NewResourceHandler(faqs, handler.DecodeFAQ, nil, "", maxUpload, logger),
		handler.NewResourceHandler(influencers, handler.DecodeInfluencer, images, "pic", maxUpload, logger),
		handler.NewResourceHandler(blogs, handler.DecodeBlog, images, "images", maxUpload, logger),
	}
	checkers := make([]handler.Checker, len(consoles))
	for i, c := range consoles {
		checkers[i] = c
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	jobs := scheduler.New(logger)
	if err := jobs.Add("notify-sweep", scheduler.NotifySweepSchedule, func() { feed.Sweep() }); err != nil {
		return err
	}
	if rateLimiter != nil {
		if err := jobs.Add("limiter-prune", scheduler.LimiterPruneSchedule, rateLimiter.Prune); err != nil {
			return err
		}
	}
	jobs.Start()
	defer jobs.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		Logger:      logger,
		Health:      handler.NewHealthHandler(info, checkers...),
		Ops:         handler.NewOpsHandler(feed, events, jobs),
		RateLimiter: rateLimiter,
		CSRF:        middleware.DefaultCSRFConfig(cfg.ServerAddr(), cfg.IsDevelopment(), cfg.CSRFTrustedOrigins),
		Timeout:     cfg.RequestTimeout + 5*time.Second,
		Consoles:    consoles,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second, // Mutations wait for the content service
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env,
			"api", cfg.APIBaseURL, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newShell[T model.Entity](baseURL, path string, res console.Resource, feed *notify.Feed, logger *slog.Logger, opts []gateway.Option) (*console.Shell[T], error) {
	opts = append(opts[:len(opts):len(opts)], gateway.WithName(res.Name))
	client, err := gateway.New[T](baseURL, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", res.Slug, err)
	}
	return console.New[T](res, client, feed, logger), nil
}

// mount loads every collection. A failure is logged and shown in the console;
// it does not stop the server.
func mount(ctx context.Context, logger *slog.Logger, mounts ...func(context.Context) error) {
	for _, m := range mounts {
		if err := m(ctx); err != nil {
			logger.Warn("initial load failed", "error", err)
		}
	}
}
