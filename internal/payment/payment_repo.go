package payment

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payment_repo.go -destination=mock/payment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, b *PaymentBatch) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PaymentBatch, error)
	FindByPayrollBatch(ctx context.Context, companyID, payrollBatchID string) ([]PaymentBatch, error)
	MarkProcessing(ctx context.Context, companyID, id string) error
	RecordResult(ctx context.Context, companyID, id string, result Result) error
}

// Result is the outcome reported back by the disbursement channel.
type Result struct {
	ProcessedCount    int
	FailedEmployees   []string
	ExternalReference *string
	FailureReason     *string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, b *PaymentBatch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PaymentBatch, error) {
	var b PaymentBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByPayrollBatch(ctx context.Context, companyID, payrollBatchID string) ([]PaymentBatch, error) {
	var batches []PaymentBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_batch_id = ?", payrollBatchID).
		Order("method ASC, bank_name ASC").
		Find(&batches).Error
	return batches, err
}

func (r *repository) MarkProcessing(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Model(&PaymentBatch{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     StatusProcessing,
			"updated_at": time.Now().UTC(),
		}).Error
}

// RecordResult derives the terminal status from the counts: every line failed
// means failed, some lines failed means partial, none means completed.
func (r *repository) RecordResult(ctx context.Context, companyID, id string, result Result) error {
	b, err := r.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return err
	}

	status := StatusCompleted
	if len(result.FailedEmployees) > 0 {
		status = StatusPartial
		if result.ProcessedCount == 0 {
			status = StatusFailed
		}
	}

	b.Status = status
	b.ProcessedCount = result.ProcessedCount
	b.FailedEmployees = result.FailedEmployees
	b.ExternalReference = result.ExternalReference
	b.FailureReason = result.FailureReason
	b.UpdatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Save(b).Error
}
