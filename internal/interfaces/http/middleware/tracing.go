package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns OpenTelemetry tracing middleware for the server
func Tracing(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// TraceAttributes tags the active span with the request ID and the
// authenticated actor. Must be registered after Tracing and the JWT
// middleware so both values are available.
func TraceAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := GetRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request.id", requestID))
			}
			if actorID, err := GetActorID(c); err == nil {
				span.SetAttributes(attribute.String("actor.id", actorID.String()))
			}
		}
		c.Next()
	}
}
