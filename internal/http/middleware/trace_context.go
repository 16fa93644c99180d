package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	attrRequestID = "caseline.request_id"
	attrProgramID = "caseline.program_id"
)

// AttachTraceContext stamps the request id, trace id and route program onto
// the request context and the active span, and echoes both ids back.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		td := &ctxutil.TraceData{
			TraceID:   requestTraceID(c),
			RequestID: strings.TrimSpace(c.GetHeader(headerRequestID)),
			ProgramID: routeProgramID(c),
		}
		if td.RequestID == "" {
			td.RequestID = uuid.New().String()
		}

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String(attrRequestID, td.RequestID))
		if td.ProgramID != "" {
			span.SetAttributes(attribute.String(attrProgramID, td.ProgramID))
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Writer.Header().Set(headerTraceID, td.TraceID)
		c.Writer.Header().Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

// requestTraceID prefers the caller's header, then the otel span, then a
// fresh id.
func requestTraceID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerTraceID)); id != "" {
		return id
	}
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return uuid.New().String()
}

// routeProgramID returns the :program_id path param in canonical form, or ""
// when the route has none or it is not a uuid.
func routeProgramID(c *gin.Context) string {
	raw := strings.TrimSpace(c.Param("program_id"))
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}
