package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIRateLimit(t *testing.T) {
	h := APIRateLimit(1, 2)(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	// The burst allows the first two requests; the third is rejected.
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("first request = %d, want 200", code)
	}
	if code := do("10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("second request = %d, want 200", code)
	}
	if code := do("10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", code)
	}

	// Limits are per client IP.
	if code := do("10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other client = %d, want 200", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"plain remote addr", "192.168.1.5:4321", "", "192.168.1.5"},
		{"forwarded single", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"forwarded chain", "10.0.0.1:80", "203.0.113.9, 10.0.0.2", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
