package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/mood-quote-service/internal/adapters/storage"
	"github.com/jsamuelsen/mood-quote-service/internal/app"
	"github.com/jsamuelsen/mood-quote-service/internal/app/quotestate"
	"github.com/jsamuelsen/mood-quote-service/internal/domain"
	"github.com/jsamuelsen/mood-quote-service/internal/domain/sentiment"
	"github.com/jsamuelsen/mood-quote-service/internal/mocks"
	"github.com/jsamuelsen/mood-quote-service/internal/platform/config"
	"github.com/jsamuelsen/mood-quote-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(port int, maxRequestSize int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  maxRequestSize,
	}
}

func newTestMoodService(t *testing.T) (*app.MoodService, *mocks.MockQuoteClient) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	client := mocks.NewMockQuoteClient(t)

	svc := app.NewMoodService(app.MoodServiceConfig{
		Quotes: app.NewQuoteService(app.QuoteServiceConfig{
			QuoteClient: client,
			Logger:      discardLogger(),
			Clock:       clock,
		}),
		States: quotestate.NewManager(quotestate.Config{
			KV:     storage.NewMemoryStore(),
			Logger: discardLogger(),
			Clock:  clock,
		}),
		Analyzer: sentiment.NewAnalyzer(sentiment.MapLexicon{"happy": 3}),
		Logger:   discardLogger(),
		Clock:    clock,
	})

	return svc, client
}

func TestServerNew(t *testing.T) {
	cfg := testServerConfig(8080, 1<<20)
	logger := discardLogger()

	srv := New(cfg, "test", logger)

	require.NotNil(t, srv)
	assert.NotNil(t, srv.Engine())
	assert.Equal(t, cfg, srv.Config())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	New(cfg, "local", logger)
	assert.Equal(t, gin.DebugMode, gin.Mode())

	gin.SetMode(gin.TestMode)
}

func TestServerStartShutdown(t *testing.T) {
	srv := New(testServerConfig(0, 1<<20), "test", discardLogger())
	gin.SetMode(gin.TestMode)

	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	errCh, err := srv.Start()
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr(), "bound port is reported")

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err, ok := <-errCh:
		require.NoError(t, err)
		assert.False(t, ok, "error channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for server to shut down")
	}
}

func TestServerStart_BindError(t *testing.T) {
	first := New(testServerConfig(0, 1<<20), "test", discardLogger())
	gin.SetMode(gin.TestMode)

	_, err := first.Start()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	second := New(testServerConfig(portNum, 1<<20), "test", discardLogger())
	gin.SetMode(gin.TestMode)

	errCh, err := second.Start()
	require.Error(t, err)
	assert.Nil(t, errCh)
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	srv := New(testServerConfig(0, 100), "test", discardLogger())
	gin.SetMode(gin.TestMode)

	srv.Engine().POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	tests := []struct {
		name       string
		size       int
		wantStatus int
	}{
		{name: "body under limit", size: 50, wantStatus: http.StatusOK},
		{name: "body over limit", size: 200, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.size)))

			srv.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNewDefaultRouterConfig(t *testing.T) {
	logger := discardLogger()
	appCfg := &config.AppConfig{Name: "mood-quote-service", Environment: "test", Version: "1.0.0"}
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{})

	cfg := NewDefaultRouterConfig(logger, appCfg, healthHandler, nil)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
	assert.Nil(t, cfg.Moods)
}

func TestSetupRouter(t *testing.T) {
	svc, client := newTestMoodService(t)
	client.EXPECT().GetRandomQuote(mock.Anything).
		Return(&domain.Quote{ID: "q1", Text: "happy happy", Author: "A"}, nil).Once()

	registry := ports.NewHealthRegistry()

	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger:        discardLogger(),
		AppConfig:     &config.AppConfig{Name: "mood-quote-service", Environment: "test", Version: "1.0.0"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{Version: "1.0.0"}),
		Moods:         svc,
		Timeout:       5 * time.Second,
	})

	t.Run("health endpoints", func(t *testing.T) {
		for _, path := range []string{"/-/live", "/-/ready", "/-/build", "/-/metrics"} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code, path)
			assert.Empty(t, w.Header().Get(middleware.HeaderSessionID), "health routes are not session scoped")
		}
	})

	t.Run("api request gets ids and a session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil)
		req.Header.Set(middleware.HeaderSessionID, "sess-router")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
		assert.Equal(t, "sess-router", w.Header().Get(middleware.HeaderSessionID))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "q1", body["id"])
	})

	t.Run("state is kept per session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/current", nil)
		req.Header.Set(middleware.HeaderSessionID, "sess-router")
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/current", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSetupRouter_WithoutServices(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			Logger:    discardLogger(),
			AppConfig: &config.AppConfig{Name: "mood-quote-service"},
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "no health handler registered")
}
