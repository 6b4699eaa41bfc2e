// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Content service
	APIBaseURL     string        `env:"OCMS_DESK_API_BASE_URL" envDefault:"http://localhost:4000"`
	ReviewPath     string        `env:"OCMS_DESK_REVIEW_PATH" envDefault:"/api/review"`
	FAQPath        string        `env:"OCMS_DESK_FAQ_PATH" envDefault:"/api/faq"`
	InfluencerPath string        `env:"OCMS_DESK_INFLUENCER_PATH" envDefault:"/api/influencers"`
	BlogPath       string        `env:"OCMS_DESK_BLOG_PATH" envDefault:"/api/blogs"`
	RequestTimeout time.Duration `env:"OCMS_DESK_REQUEST_TIMEOUT" envDefault:"30s"`
	APIRPS         float64       `env:"OCMS_DESK_API_RPS" envDefault:"0"`   // Outgoing request throttle, 0 disables
	APIBurst       int           `env:"OCMS_DESK_API_BURST" envDefault:"5"` // Outgoing request burst

	// Console HTTP server
	ServerHost     string  `env:"OCMS_DESK_SERVER_HOST" envDefault:"localhost"`
	ServerPort     int     `env:"OCMS_DESK_SERVER_PORT" envDefault:"8090"`
	Env            string  `env:"OCMS_DESK_ENV" envDefault:"development"`
	LogLevel       string  `env:"OCMS_DESK_LOG_LEVEL" envDefault:"info"`
	UploadMaxMB    int     `env:"OCMS_DESK_UPLOAD_MAX_MB" envDefault:"25"`
	RateLimitRPS   float64 `env:"OCMS_DESK_RATE_LIMIT_RPS" envDefault:"10"` // Per-IP limit, 0 disables
	RateLimitBurst int     `env:"OCMS_DESK_RATE_LIMIT_BURST" envDefault:"20"`

	// Trusted origins for cross-origin mutating requests
	CSRFTrustedOrigins []string `env:"OCMS_DESK_CSRF_TRUSTED_ORIGINS" envSeparator:","`

	// Notifications
	NotifyTTL        time.Duration `env:"OCMS_DESK_NOTIFY_TTL" envDefault:"3s"`
	NotifySingleSlot bool          `env:"OCMS_DESK_NOTIFY_SINGLE_SLOT" envDefault:"false"`
}

var validEnvs = []string{"development", "production", "test"}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UploadMaxBytes returns the request body limit of form submissions.
func (c Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) << 20
}

// APIThrottled returns true if outgoing calls to the content service are rate limited.
func (c Config) APIThrottled() bool {
	return c.APIRPS > 0
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("OCMS_DESK_API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL)
	}

	for name, p := range map[string]string{
		"OCMS_DESK_REVIEW_PATH":     c.ReviewPath,
		"OCMS_DESK_FAQ_PATH":        c.FAQPath,
		"OCMS_DESK_INFLUENCER_PATH": c.InfluencerPath,
		"OCMS_DESK_BLOG_PATH":       c.BlogPath,
	} {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%s must start with /, got %q", name, p)
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("OCMS_DESK_LOG_LEVEL must be one of debug, info, warn, error; got %q", c.LogLevel)
	}

	valid := false
	for _, e := range validEnvs {
		if c.Env == e {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("OCMS_DESK_ENV must be one of %s; got %q", strings.Join(validEnvs, ", "), c.Env)
	}

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("OCMS_DESK_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("OCMS_DESK_REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.NotifyTTL <= 0 {
		return fmt.Errorf("OCMS_DESK_NOTIFY_TTL must be positive, got %s", c.NotifyTTL)
	}
	if c.UploadMaxMB < 1 {
		return fmt.Errorf("OCMS_DESK_UPLOAD_MAX_MB must be at least 1, got %d", c.UploadMaxMB)
	}

	if !c.IsDevelopment() && strings.HasPrefix(c.APIBaseURL, "http://") {
		slog.Warn("content service is reached over plain HTTP outside development",
			"url", c.APIBaseURL)
	}
	return nil
}
