package app

import (
	"path/filepath"

	"github.com/dawingroup/dawinos-sub007/internal/batch"
	"github.com/dawingroup/dawinos-sub007/internal/contract"
	"github.com/dawingroup/dawinos-sub007/internal/employee"
	"github.com/dawingroup/dawinos-sub007/internal/leave"
	"github.com/dawingroup/dawinos-sub007/internal/loan"
	"github.com/dawingroup/dawinos-sub007/internal/messaging/kafka"
	"github.com/dawingroup/dawinos-sub007/internal/middleware"
	"github.com/dawingroup/dawinos-sub007/internal/overtime"
	"github.com/dawingroup/dawinos-sub007/internal/payment"
	"github.com/dawingroup/dawinos-sub007/internal/payroll"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"
	"github.com/dawingroup/dawinos-sub007/internal/rbac/infra"
	"github.com/dawingroup/dawinos-sub007/internal/rbac/rbac_http"
	"github.com/dawingroup/dawinos-sub007/internal/shared/counter"
	"github.com/dawingroup/dawinos-sub007/internal/subsidiary"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	contractRepo := contract.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	subsidiaryRepo := subsidiary.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)
	batchRepo := batch.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo)
	subsidiaryService := subsidiary.NewService(subsidiaryRepo)
	payrollService := payroll.NewService(
		gormDB,
		payrollRepo,
		employeeRepo,
		contractRepo,
		overtimeRepo,
		loanRepo,
		leaveRepo,
		subsidiaryRepo,
		tax.DefaultConfig(),
	)
	batchService := batch.NewService(batch.Deps{
		DB:           gormDB,
		Repo:         batchRepo,
		Payrolls:     payrollService,
		PayrollRepo:  payrollRepo,
		Employees:    employeeRepo,
		Subsidiaries: subsidiaryRepo,
		Payments:     paymentRepo,
		Loans:        loanRepo,
		RBAC:         rbacService,
		Outbox:       outboxRepo,
		Counters:     counterRepo,
	})

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	subsidiaryHandler := subsidiary.NewHandler(subsidiaryService)
	payrollHandler := payroll.NewHandler(payrollService)
	batchHandler := batch.NewHandler(batchService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		subsidiary.RegisterRoutes(api, subsidiaryHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		batch.RegisterRoutes(api, batchHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
