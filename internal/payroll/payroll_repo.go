package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "github.com/dawingroup/dawinos-sub007/internal/payroll/errors"
	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

type QueryFilter struct {
	Year   *int
	Month  *int
	Status *string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, p *EmployeePayroll) error
	Update(ctx context.Context, p *EmployeePayroll) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*EmployeePayroll, error)
	FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, year, month int) (*EmployeePayroll, error)
	FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]EmployeePayroll, error)
	FindByBatch(ctx context.Context, companyID, batchID string) ([]EmployeePayroll, error)
	LinkToBatch(ctx context.Context, companyID string, ids []string, batchID string) error
	UnlinkFromBatch(ctx context.Context, companyID, batchID string) error
	SetStatusByBatch(ctx context.Context, companyID, batchID, fromStatus, toStatus string) error

	GetYTD(ctx context.Context, companyID, employeeID string, fiscalYear int) (*PayrollYTD, error)
	SaveYTD(ctx context.Context, ytd *PayrollYTD) error
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

func (r *repository) Create(ctx context.Context, p *EmployeePayroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update performs an optimistic write: the row version must still match the
// version the caller loaded, otherwise the write is stale.
func (r *repository) Update(ctx context.Context, p *EmployeePayroll) error {
	loadedVersion := p.Version
	p.Version++
	p.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&EmployeePayroll{}).
		Where("id = ? AND version = ?", p.ID, loadedVersion).
		Select("*").
		Updates(p)
	if res.Error != nil {
		p.Version = loadedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		p.Version = loadedVersion
		return payrollerrors.ErrConcurrentModification
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*EmployeePayroll, error) {
	var p EmployeePayroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByEmployeePeriod(
	ctx context.Context,
	companyID, employeeID string,
	year, month int,
) (*EmployeePayroll, error) {
	var p EmployeePayroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND year = ? AND month = ?", employeeID, year, month).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindAllByCompany(
	ctx context.Context,
	companyID string,
	filter QueryFilter,
) ([]EmployeePayroll, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))

	if filter.Year != nil {
		db = db.Where("year = ?", *filter.Year)
	}
	if filter.Month != nil {
		db = db.Where("month = ?", *filter.Month)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}

	var payrolls []EmployeePayroll
	err := db.Order("employee_number ASC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByBatch(ctx context.Context, companyID, batchID string) ([]EmployeePayroll, error) {
	var payrolls []EmployeePayroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_period_id = ?", batchID).
		Order("employee_number ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) LinkToBatch(ctx context.Context, companyID string, ids []string, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&EmployeePayroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Update("payroll_period_id", batchID).Error
}

// UnlinkFromBatch detaches records when a batch is cancelled or reversed; the
// underlying payroll records are kept.
func (r *repository) UnlinkFromBatch(ctx context.Context, companyID, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&EmployeePayroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_period_id = ?", batchID).
		Update("payroll_period_id", nil).Error
}

func (r *repository) SetStatusByBatch(
	ctx context.Context,
	companyID, batchID, fromStatus, toStatus string,
) error {
	return r.db.WithContext(ctx).
		Model(&EmployeePayroll{}).
		Scopes(tenant.Scope(companyID)).
		Where("payroll_period_id = ? AND status = ?", batchID, fromStatus).
		Updates(map[string]any{
			"status":     toStatus,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GetYTD returns nil without error when no aggregate exists yet; callers
// start from a zero record.
func (r *repository) GetYTD(
	ctx context.Context,
	companyID, employeeID string,
	fiscalYear int,
) (*PayrollYTD, error) {
	var ytd PayrollYTD
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND fiscal_year = ?", employeeID, fiscalYear).
		First(&ytd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ytd, nil
}

// SaveYTD inserts a fresh aggregate or applies an optimistic version check on
// an existing one.
func (r *repository) SaveYTD(ctx context.Context, ytd *PayrollYTD) error {
	if ytd.Version == 0 {
		ytd.Version = 1
		return r.db.WithContext(ctx).Create(ytd).Error
	}

	loadedVersion := ytd.Version
	ytd.Version++
	ytd.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&PayrollYTD{}).
		Where("id = ? AND version = ?", ytd.ID, loadedVersion).
		Select("*").
		Updates(ytd)
	if res.Error != nil {
		ytd.Version = loadedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		ytd.Version = loadedVersion
		return payrollerrors.ErrConcurrentModification
	}
	return nil
}
