package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zkybank/zkybank/internal/infrastructure/metrics"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/accounts/100001/balance", "/api/v1/accounts/:number/balance"},
		{"/api/v1/accounts/100001/transactions", "/api/v1/accounts/:number/transactions"},
		{"/api/v1/accounts/100001", "/api/v1/accounts/:number"},
		{"/api/v1/accounts/", "/api/v1/accounts/"},
		{"/api/v1/transfers", "/api/v1/transfers"},
		{"/health", "/health"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	m := metrics.NewForTesting()
	mw := NewMetricsMiddleware(m)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/100001/deposit", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rr, req)

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(
		http.MethodPost, "/api/v1/accounts/:number/deposit", "200",
	))
	if got != 1 {
		t.Fatalf("expected 1 recorded request, got %v", got)
	}
}
