package employee

import (
	"context"
	"errors"
	"time"

	employeeerrors "github.com/dawingroup/dawinos-sub007/internal/employee/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The directory is read-only from the payroll engine's point of view;
// onboarding and contract management live in a separate system.

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, companyID string, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter GetEmployeesFilterRequest,
) ([]EmployeeResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	rosterFilter := RosterFilter{}
	if filter.Department != "" {
		rosterFilter.Department = &filter.Department
	}
	if filter.Status != "" {
		rosterFilter.Statuses = []string{filter.Status}
	}

	emps, err := s.repo.FindRoster(ctx, companyID, rosterFilter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(emps), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	return mapToResponse(*emp), nil
}

func mapToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                 emp.ID.String(),
		CompanyID:          emp.CompanyID.String(),
		EmployeeNumber:     emp.EmployeeNumber,
		FullName:           emp.FullName,
		Department:         emp.Department,
		EmploymentStatus:   emp.EmploymentStatus,
		EmploymentCategory: emp.EmploymentCategory,
		JoinDate:           emp.JoinDate.Format("2006-01-02"),
		PaymentMethod:      emp.PaymentMethod,
		BankName:           emp.BankName,
		PaymentFrequency:   emp.PaymentFrequency,
	}

	if emp.ExitDate != nil {
		v := emp.ExitDate.Format(time.DateOnly)
		resp.ExitDate = &v
	}

	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(emps))
	for i, emp := range emps {
		resp[i] = mapToResponse(emp)
	}
	return resp
}
