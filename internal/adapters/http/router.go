package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests. It exceeds
// the quote fetch deadline so a slow source still ends in a fallback quote
// rather than a 504.
const DefaultRequestTimeout = 15 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// Moods serves the quote, mood, favorites and history endpoints.
	Moods *app.MoodService

	// Timeout is the request deadline for /api/v1. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Context logger - base logger for the request
//  3. Request ID - generate/extract request ID
//  4. Correlation ID - handle distributed tracing correlation
//  5. OpenTelemetry - tracing and metrics
//  6. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): Health endpoints
//   - /api/v1/ (public API): session-scoped, with a request deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(
		middleware.Session(validSession),
		middleware.Timeout(cfg.Timeout),
	)

	if cfg.Moods != nil {
		setupAPIRoutes(apiV1, cfg.Moods)
	}
}

func validSession(id string) bool {
	return app.ValidateSession(id) == nil
}

// setupAPIRoutes registers business API routes.
func setupAPIRoutes(rg *gin.RouterGroup, moods *app.MoodService) {
	handlers.NewQuoteHandler(moods).RegisterQuoteRoutes(rg)
	handlers.NewMoodHandler(moods).RegisterMoodRoutes(rg)
	handlers.NewFavoritesHandler(moods).RegisterFavoriteRoutes(rg)
	handlers.NewHistoryHandler(moods).RegisterHistoryRoutes(rg)
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	healthHandler *handlers.HealthHandler,
	moods *app.MoodService,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		Moods:         moods,
		Timeout:       DefaultRequestTimeout,
	}
}
