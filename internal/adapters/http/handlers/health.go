// Package handlers serves the mood quote API and the internal /-/ endpoints.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

// readinessTimeout caps a readiness probe. It leaves room for the quote
// source probe deadline.
const readinessTimeout = 4 * time.Second

// BuildInfo describes the running binary. Version, Commit and BuildTime are
// injected with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`

	// StorageBackend and LexiconWords are filled in at startup.
	StorageBackend string `json:"storageBackend,omitempty"`
	LexiconWords   int    `json:"lexiconWords,omitempty"`
}

// NewBuildInfo creates a BuildInfo stamped with the Go version.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithRuntime returns a copy carrying the configured backend and lexicon size.
func (b BuildInfo) WithRuntime(backend string, lexiconWords int) BuildInfo {
	b.StorageBackend = backend
	b.LexiconWords = lexiconWords
	return b
}

// HealthHandler serves liveness, readiness, build info and metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
	}
}

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness answers while the process runs. It checks no dependency.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string `json:"status"`

	// Degraded names the optional dependencies that are failing.
	Degraded []string                      `json:"degraded,omitempty"`
	Checks   map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness runs every registered check. Only a required dependency (the
// state backend) makes it 503; a failing quote source reports "degraded"
// with 200 because quotes still come from the fallback pool.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	result := h.registry.CheckAll(ctx)

	resp := readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	}

	for name, check := range result.Checks {
		if check.Optional && check.Status != ports.HealthStatusHealthy {
			resp.Degraded = append(resp.Degraded, name)
		}
	}
	sort.Strings(resp.Degraded)

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(status, resp)
}

// BuildInfoHandler serves /-/build.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// MetricsHandler exposes the default Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterHealthRoutes mounts the internal endpoints under /-/ on the engine,
// outside the session-scoped API group:
//
//	GET|HEAD /-/live
//	GET      /-/ready
//	GET      /-/build
//	GET      /-/metrics
func (h *HealthHandler) RegisterHealthRoutes(engine *gin.Engine) {
	internal := engine.Group("/-")
	internal.GET("/live", h.Liveness)
	internal.HEAD("/live", h.Liveness)
	internal.GET("/ready", h.Readiness)
	internal.GET("/build", h.BuildInfoHandler)
	internal.GET("/metrics", gin.WrapH(MetricsHandler()))
}
