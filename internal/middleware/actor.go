package middleware

import (
	"net/http"

	"github.com/dawingroup/dawinos-sub007/internal/shared/contextutil"
	"github.com/dawingroup/dawinos-sub007/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	HeaderCompanyID  = "X-Company-ID"
	HeaderEmployeeID = "X-Employee-ID"
)

// Actor resolves the calling identity from the gateway-injected headers.
// The service trusts the gateway to have authenticated the caller.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyID := c.GetHeader(HeaderCompanyID)
		actorID := c.GetHeader(HeaderEmployeeID)

		if companyID == "" || actorID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity headers", nil)
			c.Abort()
			return
		}

		c.Set("company_id", companyID)
		c.Set("actor_id", actorID)

		ctx := contextutil.WithActorID(c.Request.Context(), actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
