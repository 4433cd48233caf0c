package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func doRequest(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimit(0.001, 1)(ok)

	if code := doRequest(h, "10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := doRequest(h, "10.0.0.1"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request limited, got %d", code)
	}
	// a different IP has its own bucket
	if code := doRequest(h, "10.0.0.2"); code != http.StatusOK {
		t.Fatalf("expected other IP to pass, got %d", code)
	}
}

func TestRateLimitInstancesAreIndependent(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	first := RateLimit(0.001, 1)(ok)
	second := RateLimit(0.001, 1)(ok)

	if code := doRequest(first, "10.0.0.3"); code != http.StatusOK {
		t.Fatalf("expected first instance to pass, got %d", code)
	}
	if code := doRequest(first, "10.0.0.3"); code != http.StatusTooManyRequests {
		t.Fatalf("expected first instance limited, got %d", code)
	}
	if code := doRequest(second, "10.0.0.3"); code != http.StatusOK {
		t.Fatalf("expected second instance unaffected, got %d", code)
	}
}
