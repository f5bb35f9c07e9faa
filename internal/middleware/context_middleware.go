package middleware

import (
	"github.com/dawingroup/dawinos-sub007/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger so the service and repo
// layers can log through contextutil without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		fields := []zap.Field{
			zap.String("request_id", contextutil.GetRequestID(ctx)),
		}
		if actorID := c.GetHeader(HeaderEmployeeID); actorID != "" {
			fields = append(fields, zap.String("actor_id", actorID))
		}

		ctx = contextutil.WithLogger(ctx, logger.With(fields...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
