package loan

import (
	"context"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveByEmployee(ctx context.Context, companyID, employeeID string) ([]Loan, error)
	RecordRecovery(ctx context.Context, companyID, loanID string, entry RecoveryEntry) error
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

func (r *repository) FindActiveByEmployee(
	ctx context.Context,
	companyID, employeeID string,
) ([]Loan, error) {
	var loans []Loan
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		Where("installments_paid < total_installments").
		Order("created_at ASC").
		Find(&loans).Error
	return loans, err
}

// RecordRecovery appends one entry to the recovery history and advances the
// installment counter; a loan whose last installment is recovered settles.
func (r *repository) RecordRecovery(
	ctx context.Context,
	companyID, loanID string,
	entry RecoveryEntry,
) error {
	var l Loan
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", loanID).Error
	if err != nil {
		return err
	}

	l.RecoveryHistory = append(l.RecoveryHistory, entry)
	l.InstallmentsPaid++
	if l.InstallmentsPaid >= l.TotalInstallments {
		l.Status = StatusSettled
	}

	return r.db.WithContext(ctx).Save(&l).Error
}
