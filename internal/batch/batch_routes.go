package batch

import (
	"github.com/dawingroup/dawinos-sub007/internal/middleware"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	batches := r.Group("/payroll-batches")
	batches.Use(middleware.Actor())
	{
		batches.POST("", middleware.RBACAuthorize(rbacService, "payroll_batch", "create"), handler.Create)
		batches.GET("", middleware.RBACAuthorize(rbacService, "payroll_batch", "read"), handler.GetAll)
		batches.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_batch", "read"), handler.GetByID)
		batches.POST("/:id/calculate", middleware.RBACAuthorize(rbacService, "payroll_batch", "calculate"), handler.Calculate)
		batches.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "payroll_batch", "submit"), handler.SubmitForReview)
		// Stage-level permissions (approve_hr, approve_finance, approve_ceo)
		// are enforced in the service once the stage is known.
		batches.POST("/:id/review", middleware.RBACAuthorize(rbacService, "payroll_batch", "review"), handler.Review)
		batches.POST("/:id/process-payments", middleware.RBACAuthorize(rbacService, "payroll_batch", "pay"), handler.ProcessPayments)
		batches.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "payroll_batch", "cancel"), handler.Cancel)
		batches.POST("/:id/reverse", middleware.RBACAuthorize(rbacService, "payroll_batch", "reverse"), handler.Reverse)
	}
}
