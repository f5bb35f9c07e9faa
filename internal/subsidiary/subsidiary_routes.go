package subsidiary

import (
	"github.com/dawingroup/dawinos-sub007/internal/middleware"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	settings := r.Group("/subsidiary/settings")
	settings.Use(middleware.Actor())
	{
		settings.GET("", middleware.RBACAuthorize(rbacService, "subsidiary", "read"), handler.GetSettings)
		settings.PUT("", middleware.RBACAuthorize(rbacService, "subsidiary", "update"), handler.UpdateSettings)
	}
}
