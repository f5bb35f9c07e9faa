package payroll

import (
	"github.com/dawingroup/dawinos-sub007/internal/middleware"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.Actor())
	{
		payrolls.POST("/calculate", middleware.RBACAuthorize(rbacService, "payroll", "calculate"), handler.Calculate)
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		payrolls.GET("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetPayslip)
		payrolls.GET("/ytd/:employeeId", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetYTD)
	}
}
