package middleware

import (
	"net/http"

	"github.com/dawingroup/dawinos-sub007/internal/rbac"
	"github.com/dawingroup/dawinos-sub007/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACAuthorize gates a route on a single resource/action pair. It expects
// Actor to have run first.
func RBACAuthorize(service rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetString("actor_id")
		companyID := c.GetString("company_id")

		if actorID == "" || companyID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(rbac.EnforceRequest{
			EmployeeID: actorID,
			CompanyID:  companyID,
			Resource:   resource,
			Action:     action,
		})
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to access this resource", resource+":"+action)
			c.Abort()
			return
		}

		c.Next()
	}
}
