package subsidiary

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=subsidiary_repo.go -destination=mock/subsidiary_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*Subsidiary, error)
	UpdateSettings(ctx context.Context, s *Subsidiary) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*Subsidiary, error) {
	var s Subsidiary
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) UpdateSettings(ctx context.Context, s *Subsidiary) error {
	return r.db.WithContext(ctx).Save(s).Error
}
