package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultCSRFConfig(t *testing.T) {
	cfg := DefaultCSRFConfig("localhost:8090", true, []string{"admin.example.com"})

	want := map[string]bool{
		"admin.example.com": true,
		"localhost:8090":    true,
		"localhost:5173":    true,
		"127.0.0.1:5173":    true,
	}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v", cfg.TrustedOrigins)
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin %q", origin)
		}
	}

	prod := DefaultCSRFConfig("localhost:8090", false, nil)
	if len(prod.TrustedOrigins) != 0 {
		t.Errorf("production TrustedOrigins = %v, want none", prod.TrustedOrigins)
	}
}

func TestCSRF_AllowsSameOriginAndSafeMethods(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig("localhost:8090", false, nil))(okHandler())

	get := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	get.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, get)
	if rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rr.Code)
	}

	post := httptest.NewRequest(http.MethodPost, "/api/reviews/1/approve", nil)
	post.Header.Set("Sec-Fetch-Site", "same-origin")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, post)
	if rr.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want 200", rr.Code)
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig("localhost:8090", false, nil))(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/reviews/1/approve", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}
