package contract

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=contract_repo.go -destination=mock/contract_repo_mock.go -package=mock
type Repository interface {
	FindActiveByEmployee(ctx context.Context, companyID, employeeID string, asOf time.Time) (*Contract, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]Contract, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// FindActiveByEmployee picks the latest contract effective on or before asOf
// that has not ended. gorm.ErrRecordNotFound signals no active contract.
func (r *repository) FindActiveByEmployee(
	ctx context.Context,
	companyID, employeeID string,
	asOf time.Time,
) (*Contract, error) {
	var c Contract
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		Where("effective_date <= ?", asOf).
		Where("end_date IS NULL OR end_date >= ?", asOf).
		Order("effective_date DESC").
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindAllByEmployee(
	ctx context.Context,
	companyID, employeeID string,
) ([]Contract, error) {
	var contracts []Contract
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Order("effective_date DESC").
		Find(&contracts).Error
	return contracts, err
}
