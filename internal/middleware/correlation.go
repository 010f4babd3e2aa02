package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"schema-forge/internal/utils"
)

const CorrelationIDKey = "correlation_id"

type correlationKey struct{}

func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Accept a caller supplied ID only when it is a UUID
		correlationID := c.GetHeader("X-Correlation-ID")
		if !utils.IsValidUUID(correlationID) {
			correlationID = utils.GenerateUUID()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Header("X-Correlation-ID", correlationID)

		ctx := context.WithValue(c.Request.Context(), correlationKey{}, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetCorrelationID returns the correlation ID of a request, or ""
func GetCorrelationID(c *gin.Context) string {
	if id, ok := c.Get(CorrelationIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// CorrelationIDFromContext returns the correlation ID stored in a request context
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
