// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mileusna/useragent"
)

// RequestLogger logs one line per request with status, duration and the
// parsed client.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				browser, os, device := describeClient(r.UserAgent())

				level := slog.LevelInfo
				if status >= http.StatusInternalServerError {
					level = slog.LevelWarn
				}
				logger.Log(r.Context(), level, "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"ip", clientIP(r),
					"browser", browser,
					"os", os,
					"device", device)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// describeClient extracts browser, OS and device type from a user agent string.
func describeClient(uaString string) (browser, os, device string) {
	ua := useragent.Parse(uaString)

	browser, os = ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	default:
		device = "desktop"
	}
	return browser, os, device
}
