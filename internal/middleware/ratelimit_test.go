package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestLoginRateLimit_BurstThenThrottle(t *testing.T) {
	// Tiny refill rate so the burst is the whole budget within the test.
	mw := loginRateLimit(rate.Limit(0.001), 3)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	call := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		req.RemoteAddr = "203.0.113.9:51515"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := call(); code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, code)
		}
	}
	if code := call(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %d", code)
	}
}

func TestLoginRateLimit_BurstFromEnv(t *testing.T) {
	t.Setenv("LOGIN_RATE_BURST", "2")

	handler := LoginRateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func() int {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		req.RemoteAddr = "203.0.113.77:40000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := call(); code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, code)
		}
	}
	if code := call(); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the env burst, got %d", code)
	}
}

func TestLoginRateLimit_PerIP(t *testing.T) {
	mw := loginRateLimit(rate.Limit(0.001), 1)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call("198.51.100.1:1000"); code != http.StatusOK {
		t.Fatalf("first IP first attempt: expected 200, got %d", code)
	}
	if code := call("198.51.100.1:1001"); code != http.StatusTooManyRequests {
		t.Fatalf("first IP second attempt: expected 429, got %d", code)
	}
	// A different IP has its own budget.
	if code := call("198.51.100.2:1000"); code != http.StatusOK {
		t.Fatalf("second IP: expected 200, got %d", code)
	}
}
