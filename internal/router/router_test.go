package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/oticahub/lens-engine/internal/calibration"
	"github.com/oticahub/lens-engine/internal/handler"
	"github.com/oticahub/lens-engine/internal/matching"
	"github.com/oticahub/lens-engine/internal/service"
)

type countingLimiter struct {
	limit int
	seen  map[string]int
	err   error
}

func (l *countingLimiter) Allow(ctx context.Context, client string) (bool, int, error) {
	if l.err != nil {
		return true, l.limit, l.err
	}
	l.seen[client]++
	return l.seen[client] <= l.limit, max(l.limit-l.seen[client], 0), nil
}

func (l *countingLimiter) Limit() int { return l.limit }

func newRouter(limiter Limiter) http.Handler {
	svc := service.NewService(nil, nil, nil, calibration.NewEngine(),
		matching.NewEngine(matching.DefaultPolicy()), service.Options{})
	return Setup(handler.NewHandler(svc), limiter, 5*time.Second)
}

func calibrate(h http.Handler) *httptest.ResponseRecorder {
	return calibrateFrom(h, "203.0.113.7:5555")
}

func calibrateFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/lens/calibrate", strings.NewReader(`{
		"prescription": {"od": {"sphere": 1, "cylinder": 0, "axis": 0}, "os": {"sphere": 1, "cylinder": 0, "axis": 0}},
		"face": {"pd": 64, "dnpRight": 32, "dnpLeft": 32},
		"frame": {"lensWidth": 50, "lensHeight": 36, "bridgeWidth": 19}
	}`))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	h := newRouter(&countingLimiter{limit: 2, seen: map[string]int{}})

	for i := 0; i < 2; i++ {
		if rec := calibrate(h); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := calibrate(h)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("expected remaining 0, got %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := newRouter(&countingLimiter{limit: 1, err: errors.New("redis down")})

	for i := 0; i < 3; i++ {
		if rec := calibrate(h); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 when limiter fails, got %d", i, rec.Code)
		}
	}
}

func TestRateLimitSharedAcrossConnections(t *testing.T) {
	h := newRouter(&countingLimiter{limit: 1, seen: map[string]int{}})

	if rec := calibrateFrom(h, "203.0.113.7:1111"); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	for _, addr := range []string{"203.0.113.7:2222", "203.0.113.7:3333"} {
		if rec := calibrateFrom(h, addr); rec.Code != http.StatusTooManyRequests {
			t.Errorf("%s: expected 429 for a new port of the same host, got %d", addr, rec.Code)
		}
	}
	if rec := calibrateFrom(h, "198.51.100.2:1111"); rec.Code != http.StatusOK {
		t.Errorf("another host should have its own quota, got %d", rec.Code)
	}
}

func TestClientKey(t *testing.T) {
	tests := map[string]string{
		"203.0.113.7:5555": "203.0.113.7",
		"[2001:db8::1]:80": "2001:db8::1",
		"203.0.113.7":      "203.0.113.7",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := clientKey(req); got != want {
			t.Errorf("clientKey(%q) = %q, want %q", addr, got, want)
		}
	}
}
