package overtime

import (
	"context"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=overtime_repo.go -destination=mock/overtime_repo_mock.go -package=mock
type Repository interface {
	FindApprovedByEmployeePeriod(ctx context.Context, companyID, employeeID string, year, month int) ([]Overtime, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindApprovedByEmployeePeriod(
	ctx context.Context,
	companyID, employeeID string,
	year, month int,
) ([]Overtime, error) {
	var entries []Overtime
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ? AND month = ?", year, month).
		Where("status = ?", StatusApproved).
		Order("date ASC").
		Find(&entries).Error
	return entries, err
}
