package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dawingroup/dawinos-sub007/internal/batch"
	"github.com/dawingroup/dawinos-sub007/internal/contract"
	"github.com/dawingroup/dawinos-sub007/internal/employee"
	"github.com/dawingroup/dawinos-sub007/internal/events"
	"github.com/dawingroup/dawinos-sub007/internal/leave"
	"github.com/dawingroup/dawinos-sub007/internal/loan"
	"github.com/dawingroup/dawinos-sub007/internal/messaging/kafka"
	"github.com/dawingroup/dawinos-sub007/internal/messaging/kafka/consumer"
	"github.com/dawingroup/dawinos-sub007/internal/overtime"
	"github.com/dawingroup/dawinos-sub007/internal/payment"
	"github.com/dawingroup/dawinos-sub007/internal/payroll"
	"github.com/dawingroup/dawinos-sub007/internal/rbac"
	"github.com/dawingroup/dawinos-sub007/internal/rbac/infra"
	"github.com/dawingroup/dawinos-sub007/internal/shared/connection"
	"github.com/dawingroup/dawinos-sub007/internal/shared/counter"
	"github.com/dawingroup/dawinos-sub007/internal/subsidiary"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}

	employeeRepo := employee.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	subsidiaryRepo := subsidiary.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)

	payrollService := payroll.NewService(
		gormDB,
		payrollRepo,
		employeeRepo,
		contract.NewRepository(gormDB),
		overtime.NewRepository(gormDB),
		loanRepo,
		leave.NewRepository(gormDB),
		subsidiaryRepo,
		tax.DefaultConfig(),
	)
	batchService := batch.NewService(batch.Deps{
		DB:           gormDB,
		Repo:         batch.NewRepository(gormDB),
		Payrolls:     payrollService,
		PayrollRepo:  payrollRepo,
		Employees:    employeeRepo,
		Subsidiaries: subsidiaryRepo,
		Payments:     paymentRepo,
		Loans:        loanRepo,
		RBAC:         rbac.NewService(rbac.NewRepository(gormDB), enforcer),
		Outbox:       kafka.NewOutboxRepository(gormDB),
		Counters:     counter.NewRepository(gormDB),
	})

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PaymentResultTopic,
		GroupID:        "payroll-engine-payment-results",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePaymentResults(ctx, reader, batchService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
