package telemetry

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the active trace id back to the caller.
const TraceIDHeader = "X-Trace-ID"

// probePrefix marks liveness, readiness and scrape routes. They are polled
// constantly and stay out of traces and request metrics.
const probePrefix = "/-/"

// unmatchedRoute labels requests no route matched, keeping the route
// attribute bounded.
const unmatchedRoute = "unmatched"

// httpInstruments are the server-side request instruments.
type httpInstruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	active   metric.Int64UpDownCounter
}

var (
	instruments     *httpInstruments
	instrumentsErr  error
	instrumentsOnce sync.Once
)

// serverInstruments creates the instruments once on the global meter. Call
// after New so they bind to the installed provider.
func serverInstruments() (*httpInstruments, error) {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)

		var in httpInstruments

		in.duration, instrumentsErr = meter.Float64Histogram(
			"moodquote.http.server.duration",
			metric.WithDescription("HTTP request duration in seconds"),
			metric.WithUnit("s"),
		)
		if instrumentsErr != nil {
			return
		}

		in.total, instrumentsErr = meter.Int64Counter(
			"moodquote.http.server.requests",
			metric.WithDescription("HTTP requests by route and status"),
		)
		if instrumentsErr != nil {
			return
		}

		in.active, instrumentsErr = meter.Int64UpDownCounter(
			"moodquote.http.server.active_requests",
			metric.WithDescription("HTTP requests in flight"),
		)
		if instrumentsErr != nil {
			return
		}

		instruments = &in
	})

	return instruments, instrumentsErr
}

// Middleware returns the tracing middleware followed by request metrics.
// Register the returned handlers in order.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, otelgin.WithFilter(notProbe)),
		metricsMiddleware(),
	}
}

func notProbe(r *http.Request) bool {
	return !isProbe(r.URL.Path)
}

func isProbe(path string) bool {
	return strings.HasPrefix(path, probePrefix)
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}

func metricsMiddleware() gin.HandlerFunc {
	m, err := serverInstruments()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		// Headers must be set before the handler writes the body.
		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}

		if m == nil || isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		base := []attribute.KeyValue{
			attribute.String("http.route", routeOf(c)),
			attribute.String("http.request.method", c.Request.Method),
		}

		m.active.Add(ctx, 1, metric.WithAttributes(base...))
		defer m.active.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		attrs := metric.WithAttributes(append(base, attribute.Int("http.response.status_code", c.Writer.Status()))...)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.total.Add(ctx, 1, attrs)
	}
}
