package subsidiary

import (
	"context"
	"errors"

	subsidiaryerrors "github.com/dawingroup/dawinos-sub007/internal/subsidiary/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=subsidiary_service.go -destination=mock/subsidiary_service_mock.go -package=mock
type Service interface {
	GetSettings(ctx context.Context, companyID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, companyID string, req UpdateSettingsRequest) (SettingsResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetSettings(ctx context.Context, companyID string) (SettingsResponse, error) {
	sub, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, subsidiaryerrors.ErrSubsidiaryNotFound
		}
		return SettingsResponse{}, err
	}

	return mapToResponse(*sub), nil
}

func (s *service) UpdateSettings(
	ctx context.Context,
	companyID string,
	req UpdateSettingsRequest,
) (SettingsResponse, error) {
	if req.CEOApprovalThreshold <= 0 {
		return SettingsResponse{}, subsidiaryerrors.ErrInvalidThreshold
	}
	if req.FiscalYearStartMonth < 1 || req.FiscalYearStartMonth > 12 {
		return SettingsResponse{}, subsidiaryerrors.ErrInvalidFiscalStart
	}

	sub, err := s.repo.FindByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SettingsResponse{}, subsidiaryerrors.ErrSubsidiaryNotFound
		}
		return SettingsResponse{}, err
	}

	sub.CEOApprovalThreshold = req.CEOApprovalThreshold
	sub.FiscalYearStartMonth = req.FiscalYearStartMonth
	sub.ProrationMode = req.ProrationMode
	sub.RoundingMode = req.RoundingMode

	if err := s.repo.UpdateSettings(ctx, sub); err != nil {
		return SettingsResponse{}, err
	}

	return mapToResponse(*sub), nil
}

func mapToResponse(sub Subsidiary) SettingsResponse {
	return SettingsResponse{
		ID:                   sub.ID.String(),
		Name:                 sub.Name,
		CEOApprovalThreshold: sub.CEOApprovalThreshold,
		FiscalYearStartMonth: sub.FiscalYearStartMonth,
		ProrationMode:        sub.ProrationMode,
		RoundingMode:         sub.RoundingMode,
	}
}
