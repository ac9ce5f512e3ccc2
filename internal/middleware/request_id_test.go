package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	t.Parallel()

	var fromCtx string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if fromCtx == "" {
		t.Fatal("request ID should be generated when absent")
	}
	if got := rec.Header().Get(RequestIDHeader); got != fromCtx {
		t.Errorf("response header = %q, want %q", got, fromCtx)
	}
}

func TestRequestID_Propagated(t *testing.T) {
	t.Parallel()

	var fromCtx string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if fromCtx != "client-supplied-id" {
		t.Errorf("context request ID = %q, want the client-supplied one", fromCtx)
	}
}
