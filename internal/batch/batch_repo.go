package batch

import (
	"context"
	"errors"
	"time"

	batcherrors "github.com/dawingroup/dawinos-sub007/internal/batch/errors"
	"github.com/dawingroup/dawinos-sub007/internal/tenant"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type QueryFilter struct {
	Year   *int
	Month  *int
	Status *string
}

//go:generate mockgen -source=batch_repo.go -destination=mock/batch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, b *PayrollBatch) error
	Update(ctx context.Context, b *PayrollBatch) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollBatch, error)
	FindByPeriod(ctx context.Context, companyID string, year, month int) (*PayrollBatch, error)
	FindAllByCompany(ctx context.Context, companyID string, filter QueryFilter) ([]PayrollBatch, error)
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

// Create relies on the unique (company_id, year, month) index to close the
// race between two concurrent period checks.
func (r *repository) Create(ctx context.Context, b *PayrollBatch) error {
	err := r.db.WithContext(ctx).Create(b).Error
	if isUniqueViolation(err) {
		return batcherrors.ErrBatchAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Update performs an optimistic write against the version the caller loaded.
// A zero-row result means someone else advanced the batch first.
func (r *repository) Update(ctx context.Context, b *PayrollBatch) error {
	loadedVersion := b.Version
	b.Version++
	b.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&PayrollBatch{}).
		Where("id = ? AND version = ?", b.ID, loadedVersion).
		Select("*").
		Updates(b)
	if res.Error != nil {
		b.Version = loadedVersion
		return res.Error
	}
	if res.RowsAffected == 0 {
		b.Version = loadedVersion
		return batcherrors.ErrConcurrentModification
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*PayrollBatch, error) {
	var b PayrollBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByPeriod(ctx context.Context, companyID string, year, month int) (*PayrollBatch, error) {
	var b PayrollBatch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("year = ? AND month = ?", year, month).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindAllByCompany(
	ctx context.Context,
	companyID string,
	filter QueryFilter,
) ([]PayrollBatch, error) {
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

	var batches []PayrollBatch
	err := db.Order("year DESC, month DESC").Find(&batches).Error
	return batches, err
}
