package leave

import (
	"context"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	CountUnpaidDays(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CountUnpaidDays sums approved unpaid-leave days overlapping the period,
// clipping each leave to the period boundaries.
func (r *repository) CountUnpaidDays(
	ctx context.Context,
	companyID, employeeID string,
	periodStart, periodEnd time.Time,
) (int, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", TypeUnpaid).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", periodStart, periodEnd).
		Find(&leaves).Error
	if err != nil {
		return 0, err
	}

	days := 0
	for _, l := range leaves {
		start := l.StartDate
		if start.Before(periodStart) {
			start = periodStart
		}
		end := l.EndDate
		if end.After(periodEnd) {
			end = periodEnd
		}
		days += int(end.Sub(start).Hours()/24) + 1
	}
	return days, nil
}
