package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"forwarded chain takes first", "203.0.113.5, 10.0.0.1", "", "127.0.0.1:1234", "203.0.113.5"},
		{"single forwarded", "203.0.113.5", "", "127.0.0.1:1234", "203.0.113.5"},
		{"real ip fallback", "", "203.0.113.9", "127.0.0.1:1234", "203.0.113.9"},
		{"remote addr fallback", "", "", "198.51.100.7:4567", "198.51.100.7:4567"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
