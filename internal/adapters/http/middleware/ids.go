// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/mood-quote-service/internal/platform/logging"
)

// Headers carrying the identifiers tracked per request.
const (
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a business transaction across services,
	// where X-Request-ID names a single hop.
	HeaderCorrelationID = "X-Correlation-ID"

	// HeaderSessionID scopes quote state.
	HeaderSessionID = "X-Session-ID"
)

// Gin context keys for the same identifiers.
const (
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
	ContextKeySessionID     = "session_id"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// headerID reads an identifier from a header, replacing it with a UUID
// when it is missing or rejected, and echoes the value in effect.
type headerID struct {
	header string
	ginKey string

	// accept nil takes any non-empty value.
	accept func(id string) bool

	// attach copies the id into the request context.
	attach []func(ctx context.Context, id string) context.Context
}

func (h headerID) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if id == "" || (h.accept != nil && !h.accept(id)) {
			id = uuid.NewString()
		}

		c.Set(h.ginKey, id)
		c.Header(h.header, id)

		ctx := c.Request.Context()
		for _, attach := range h.attach {
			ctx = attach(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestID returns middleware for X-Request-ID. The id reaches the context
// logger and outbound quote API calls.
func RequestID() gin.HandlerFunc {
	return headerID{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		attach: []func(context.Context, string) context.Context{logging.WithRequestID, ContextWithRequestID},
	}.middleware()
}

// CorrelationID returns middleware that propagates X-Correlation-ID from
// upstream, generating one when this request is the origin.
func CorrelationID() gin.HandlerFunc {
	return headerID{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		attach: []func(context.Context, string) context.Context{logging.WithCorrelationID, ContextWithCorrelationID},
	}.middleware()
}

// Session returns middleware that scopes quote state to X-Session-ID. Ids
// rejected by accept are replaced, so clients must keep the echoed one.
func Session(accept func(string) bool) gin.HandlerFunc {
	return headerID{
		header: HeaderSessionID,
		ginKey: ContextKeySessionID,
		accept: accept,
		attach: []func(context.Context, string) context.Context{logging.WithSessionID},
	}.middleware()
}

// GetRequestID returns the request id, or "" outside RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id, or "" outside CorrelationID.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// GetSessionID returns the session id, or "" outside Session.
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}

// ContextWithRequestID stores a request id for outbound propagation.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation id for outbound propagation.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// RequestIDFromContext is used by client adapters to forward X-Request-ID.
func RequestIDFromContext(ctx context.Context) string {
	return valueOf(ctx, requestIDKey)
}

// CorrelationIDFromContext is used by client adapters to forward
// X-Correlation-ID.
func CorrelationIDFromContext(ctx context.Context) string {
	return valueOf(ctx, correlationIDKey)
}

func valueOf(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
