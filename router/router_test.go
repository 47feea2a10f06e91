package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prebid/prebid-vast/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfiguration() *config.Configuration {
	return &config.Configuration{
		Resolver: config.Resolver{MaxDepth: 5, TimeoutPerHopMS: 1000},
		Fetcher:  config.Fetcher{TimeoutMS: 1000, MaxResponseBytes: 1 << 20},
		Client:   config.HTTPClient{MaxIdleConns: 10, MaxIdleConnsPerHost: 2, IdleConnTimeout: 30},
		Tracking: config.Tracking{MaxWorkers: 2, MaxCapacity: 10, TimeoutMS: 1000},
	}
}

func TestNewRegistersEndpoints(t *testing.T) {
	r, err := New(testConfiguration())
	require.NoError(t, err)
	defer r.Shutdown()

	testCases := []struct {
		description  string
		method       string
		target       string
		body         string
		expectStatus int
	}{
		{description: "status", method: http.MethodGet, target: "/status", expectStatus: http.StatusNoContent},
		{description: "resolve without tag", method: http.MethodGet, target: "/vast/resolve", expectStatus: http.StatusBadRequest},
		{description: "resolve empty document", method: http.MethodPost, target: "/vast/resolve", body: `<VAST version="4.0"/>`, expectStatus: http.StatusOK},
		{description: "track without urls", method: http.MethodPost, target: "/vast/track", body: `{}`, expectStatus: http.StatusBadRequest},
		{description: "track", method: http.MethodPost, target: "/vast/track", body: `{"urls": []}`, expectStatus: http.StatusNoContent},
		{description: "unknown", method: http.MethodGet, target: "/openrtb2/auction", expectStatus: http.StatusNotFound},
	}

	for _, test := range testCases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(test.method, test.target, strings.NewReader(test.body)))
		assert.Equal(t, test.expectStatus, rec.Code, test.description)
	}
}

func TestNewWiresMetrics(t *testing.T) {
	cfg := testConfiguration()
	cfg.Metrics.Prometheus.Port = 9999

	r, err := New(cfg)
	require.NoError(t, err)
	defer r.Shutdown()

	assert.NotNil(t, r.MetricsEngine.PrometheusMetrics)
	assert.NotNil(t, r.Resolver)
	assert.NotNil(t, r.Emitter)
}

func TestAdminVersion(t *testing.T) {
	rec := httptest.NewRecorder()
	Admin("1.0.0", "abc").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"1.0.0","revision":"abc"}`, rec.Body.String())
}

func TestNoCache(t *testing.T) {
	handler := NoCache{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	assert.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestSupportCORS(t *testing.T) {
	handler := SupportCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/vast/resolve", nil)
	req.Header.Set("Origin", "https://player.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://player.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
