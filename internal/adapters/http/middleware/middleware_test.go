package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const uuidPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{name: "generates UUID when no header present", expectGenerated: true},
		{name: "passes through existing header", existingHeaderID: "existing-req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID, capturedContextID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetRequestID(c)
				capturedContextID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderRequestID, tt.existingHeaderID)
			}

			w := serve(router, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, w.Header().Get(HeaderRequestID), capturedID)
			assert.Equal(t, capturedID, capturedContextID)

			if tt.expectGenerated {
				assert.Regexp(t, uuidPattern, capturedID)
			} else {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		existingHeaderID string
		expectGenerated  bool
	}{
		{name: "generates UUID when no header present", expectGenerated: true},
		{name: "passes through existing header", existingHeaderID: "existing-corr-456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var capturedID, capturedContextID string

			router := gin.New()
			router.Use(CorrelationID())
			router.GET("/test", func(c *gin.Context) {
				capturedID = GetCorrelationID(c)
				capturedContextID = CorrelationIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingHeaderID != "" {
				req.Header.Set(HeaderCorrelationID, tt.existingHeaderID)
			}

			w := serve(router, req)

			assert.Equal(t, w.Header().Get(HeaderCorrelationID), capturedID)
			assert.Equal(t, capturedID, capturedContextID)

			if tt.expectGenerated {
				assert.Regexp(t, uuidPattern, capturedID)
			} else {
				assert.Equal(t, tt.existingHeaderID, capturedID)
			}
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	t.Parallel()

	onlyShort := func(s string) bool { return len(s) <= 8 && !strings.Contains(s, " ") }

	tests := []struct {
		name       string
		header     string
		accept     func(string) bool
		wantHeader bool
	}{
		{name: "keeps accepted id", header: "sess-1", accept: onlyShort, wantHeader: true},
		{name: "replaces rejected id", header: "not a valid session", accept: onlyShort},
		{name: "generates id when missing", accept: onlyShort},
		{name: "nil accept keeps any id", header: "anything at all", wantHeader: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string

			router := gin.New()
			router.Use(Session(tt.accept))
			router.GET("/test", func(c *gin.Context) {
				captured = GetSessionID(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderSessionID, tt.header)
			}

			w := serve(router, req)

			assert.Equal(t, w.Header().Get(HeaderSessionID), captured)

			if tt.wantHeader {
				assert.Equal(t, tt.header, captured)
			} else {
				assert.Regexp(t, uuidPattern, captured)
			}
		})
	}
}

func TestGetIDs_NotSet(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
	assert.Empty(t, GetSessionID(c))

	c.Set(ContextKeySessionID, 42)
	assert.Empty(t, GetSessionID(c), "non-string value is ignored")
}

func TestContextLogger_IDsEnrichRouterLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(ContextLogger(logger), RequestID(), Session(nil), Logging(discardLogger()))
	router.GET("/api/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderSessionID, "sess-1")

	serve(router, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))

	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.EqualValues(t, http.StatusOK, entry["status"])
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		status    int
		skipPaths []string
		wantLevel string
	}{
		{name: "ok at info", path: "/api/test", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error at warn", path: "/api/test", status: http.StatusBadRequest, wantLevel: "WARN"},
		{name: "server error at error", path: "/api/test", status: http.StatusInternalServerError, wantLevel: "ERROR"},
		{name: "health paths are skipped", path: "/-/ready", status: http.StatusOK},
		{name: "exact skip path", path: "/metrics", status: http.StatusOK, skipPaths: []string{"/metrics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			router := gin.New()
			router.Use(Logging(logger, tt.skipPaths...))
			router.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			w := serve(router, httptest.NewRequest(http.MethodGet, tt.path+"?q=1", nil))
			assert.Equal(t, tt.status, w.Code)

			if tt.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path+"?q=1", entry["path"])
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(discardLogger()))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500 envelope", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		router := gin.New()
		router.Use(Recovery(logger))
		router.GET("/test", func(*gin.Context) { panic("something went wrong") })

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "req-panic")

		w := serve(router, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
		assert.Contains(t, w.Body.String(), "req-panic")
		assert.Contains(t, buf.String(), "something went wrong")
		assert.Contains(t, buf.String(), "stack")
	})

	t.Run("panic after write keeps the partial response", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery(discardLogger()))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusAccepted, "partial")
			panic("late")
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "partial", w.Body.String())
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets context deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(5 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("skips specified paths", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Second, "/-/live"))
		router.GET("/-/live", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		serve(router, httptest.NewRequest(http.MethodGet, "/-/live", nil))
		assert.False(t, hasDeadline)
	})

	t.Run("zero disables the deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(0))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
		})

		serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.False(t, hasDeadline)
	})

	t.Run("silent handler past the deadline gets 504", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/slow", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Contains(t, w.Body.String(), "TIMEOUT")
	})

	t.Run("handler that answered keeps its response", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.JSON(http.StatusOK, gin.H{"late": true})
		})

		w := serve(router, httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestContextStorageIntegration(t *testing.T) {
	t.Parallel()

	var requestID, correlationID string

	router := gin.New()
	router.Use(RequestID(), CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		ctx := c.Request.Context()
		requestID = RequestIDFromContext(ctx)
		correlationID = CorrelationIDFromContext(ctx)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(context.Background())
	req.Header.Set(HeaderRequestID, "integration-test-id")
	req.Header.Set(HeaderCorrelationID, "integration-corr-id")

	serve(router, req)

	assert.Equal(t, "integration-test-id", requestID)
	assert.Equal(t, "integration-corr-id", correlationID)
}
