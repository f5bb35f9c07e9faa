package employee

import (
	"context"

	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"gorm.io/gorm"
)

// QueryChunkSize caps how many explicit employee ids go into one IN clause;
// FindByIDs issues one query per chunk.
const QueryChunkSize = 100

type RosterFilter struct {
	Department *string
	Statuses   []string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]Employee, error)
	FindRoster(ctx context.Context, companyID string, filter RosterFilter) ([]Employee, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]Employee, error) {
	emps := make([]Employee, 0, len(ids))
	for start := 0; start < len(ids); start += QueryChunkSize {
		end := min(start+QueryChunkSize, len(ids))

		var chunk []Employee
		err := r.db.WithContext(ctx).
			Scopes(tenant.Scope(companyID)).
			Where("id IN ?", ids[start:end]).
			Find(&chunk).Error
		if err != nil {
			return nil, err
		}
		emps = append(emps, chunk...)
	}
	return emps, nil
}

func (r *repository) FindRoster(ctx context.Context, companyID string, filter RosterFilter) ([]Employee, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))

	if filter.Department != nil && *filter.Department != "" {
		db = db.Where("department = ?", *filter.Department)
	}
	if len(filter.Statuses) > 0 {
		db = db.Where("employment_status IN ?", filter.Statuses)
	}

	var emps []Employee
	err := db.Order("employee_number ASC").Find(&emps).Error
	return emps, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("employee_number ASC").
		Find(&emps).Error
	return emps, err
}
