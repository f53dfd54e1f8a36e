package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/mocks"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func healthRouter(registry ports.HealthRegistry, info BuildInfo) *gin.Engine {
	router := gin.New()
	NewHealthHandler(registry, info).RegisterHealthRoutes(router)
	return router
}

func serve(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2026-01-15T10:00:00Z")

	assert.Equal(t, "1.0.0", bi.Version)
	assert.Equal(t, runtime.Version(), bi.GoVersion)
	assert.Empty(t, bi.StorageBackend)

	withRuntime := bi.WithRuntime("redis", 250)
	assert.Equal(t, "redis", withRuntime.StorageBackend)
	assert.Equal(t, 250, withRuntime.LexiconWords)
	assert.Empty(t, bi.StorageBackend, "receiver is not modified")
}

func TestHealthHandler_Liveness(t *testing.T) {
	router := healthRouter(mocks.NewMockHealthRegistry(t), BuildInfo{})

	w := serve(router, http.MethodGet, "/-/live")
	require.Equal(t, http.StatusOK, w.Code)

	var resp livenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodHead, "/-/live").Code)
}

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name         string
		result       *ports.HealthResult
		wantStatus   int
		wantHealth   string
		wantDegraded []string
	}{
		{
			name: "all checks healthy",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{
					"quote-service": {Status: ports.HealthStatusHealthy, Optional: true},
					"state-store":   {Status: ports.HealthStatusHealthy},
				},
			},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
		{
			name: "state store down",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"quote-service": {Status: ports.HealthStatusHealthy, Optional: true},
					"state-store":   {Status: ports.HealthStatusUnhealthy, Message: "connection refused"},
				},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
		},
		{
			name: "quote source down still serves",
			result: &ports.HealthResult{
				Status: ports.HealthStatusDegraded,
				Checks: map[string]*ports.CheckResult{
					"quote-service": {Status: ports.HealthStatusUnhealthy, Optional: true, Message: "unavailable"},
					"state-store":   {Status: ports.HealthStatusHealthy},
				},
			},
			wantStatus:   http.StatusOK,
			wantHealth:   "degraded",
			wantDegraded: []string{"quote-service"},
		},
		{
			name:       "no checks registered",
			result:     &ports.HealthResult{Status: ports.HealthStatusHealthy},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.MatchedBy(func(ctx context.Context) bool {
				_, ok := ctx.Deadline()
				return ok
			})).Return(tt.result)

			w := serve(healthRouter(registry, BuildInfo{}), http.MethodGet, "/-/ready")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantHealth, resp.Status)
			assert.Equal(t, tt.wantDegraded, resp.Degraded)
		})
	}
}

func TestHealthHandler_BuildInfo(t *testing.T) {
	info := NewBuildInfo("1.2.3", "def456", "2026-02-01T12:00:00Z").WithRuntime("sqlite", 42)

	w := serve(healthRouter(mocks.NewMockHealthRegistry(t), info), http.MethodGet, "/-/build")
	require.Equal(t, http.StatusOK, w.Code)

	var resp BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, info, resp)
}

func TestHealthHandler_Metrics(t *testing.T) {
	w := serve(healthRouter(mocks.NewMockHealthRegistry(t), BuildInfo{}), http.MethodGet, "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHealthHandler_Routes(t *testing.T) {
	router := healthRouter(mocks.NewMockHealthRegistry(t), BuildInfo{})

	routes := make(map[string]bool)
	for _, r := range router.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"HEAD /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
	} {
		assert.True(t, routes[want], "missing route: %s", want)
	}
}
