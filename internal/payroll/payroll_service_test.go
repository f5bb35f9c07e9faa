package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/contract"
	"github.com/dawingroup/dawinos-sub007/internal/employee"
	"github.com/dawingroup/dawinos-sub007/internal/loan"
	"github.com/dawingroup/dawinos-sub007/internal/overtime"
	"github.com/dawingroup/dawinos-sub007/internal/payroll"
	payrollerrors "github.com/dawingroup/dawinos-sub007/internal/payroll/errors"
	"github.com/dawingroup/dawinos-sub007/internal/subsidiary"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakePayrollRepository struct {
	createFn               func(ctx context.Context, p *payroll.EmployeePayroll) error
	updateFn               func(ctx context.Context, p *payroll.EmployeePayroll) error
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*payroll.EmployeePayroll, error)
	findByEmployeePeriodFn func(ctx context.Context, companyID, employeeID string, year, month int) (*payroll.EmployeePayroll, error)
	findAllByCompanyFn     func(ctx context.Context, companyID string, filter payroll.QueryFilter) ([]payroll.EmployeePayroll, error)
	findByBatchFn          func(ctx context.Context, companyID, batchID string) ([]payroll.EmployeePayroll, error)
	getYTDFn               func(ctx context.Context, companyID, employeeID string, fiscalYear int) (*payroll.PayrollYTD, error)
	saveYTDFn              func(ctx context.Context, ytd *payroll.PayrollYTD) error
}

func (f *fakePayrollRepository) WithTx(tx *gorm.DB) payroll.Repository { return f }

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.EmployeePayroll) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) Update(ctx context.Context, p *payroll.EmployeePayroll) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePayrollRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*payroll.EmployeePayroll, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindByEmployeePeriod(ctx context.Context, companyID, employeeID string, year, month int) (*payroll.EmployeePayroll, error) {
	if f.findByEmployeePeriodFn != nil {
		return f.findByEmployeePeriodFn(ctx, companyID, employeeID, year, month)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePayrollRepository) FindAllByCompany(ctx context.Context, companyID string, filter payroll.QueryFilter) ([]payroll.EmployeePayroll, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID, filter)
	}
	return nil, nil
}

func (f *fakePayrollRepository) FindByBatch(ctx context.Context, companyID, batchID string) ([]payroll.EmployeePayroll, error) {
	if f.findByBatchFn != nil {
		return f.findByBatchFn(ctx, companyID, batchID)
	}
	return nil, nil
}

func (f *fakePayrollRepository) LinkToBatch(ctx context.Context, companyID string, ids []string, batchID string) error {
	return nil
}

func (f *fakePayrollRepository) UnlinkFromBatch(ctx context.Context, companyID, batchID string) error {
	return nil
}

func (f *fakePayrollRepository) SetStatusByBatch(ctx context.Context, companyID, batchID, fromStatus, toStatus string) error {
	return nil
}

func (f *fakePayrollRepository) GetYTD(ctx context.Context, companyID, employeeID string, fiscalYear int) (*payroll.PayrollYTD, error) {
	if f.getYTDFn != nil {
		return f.getYTDFn(ctx, companyID, employeeID, fiscalYear)
	}
	return nil, nil
}

func (f *fakePayrollRepository) SaveYTD(ctx context.Context, ytd *payroll.PayrollYTD) error {
	if f.saveYTDFn != nil {
		return f.saveYTDFn(ctx, ytd)
	}
	return nil
}

type fakeEmployeeRepository struct {
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*employee.Employee, error)
}

func (f *fakeEmployeeRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*employee.Employee, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindRoster(ctx context.Context, companyID string, filter employee.RosterFilter) ([]employee.Employee, error) {
	return nil, nil
}

func (f *fakeEmployeeRepository) FindAllByCompany(ctx context.Context, companyID string) ([]employee.Employee, error) {
	return nil, nil
}

type fakeContractRepository struct {
	findActiveByEmployeeFn func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error)
}

func (f *fakeContractRepository) FindActiveByEmployee(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, companyID, employeeID, asOf)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeContractRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]contract.Contract, error) {
	return nil, nil
}

type fakeOvertimeRepository struct {
	findApprovedFn func(ctx context.Context, companyID, employeeID string, year, month int) ([]overtime.Overtime, error)
}

func (f *fakeOvertimeRepository) FindApprovedByEmployeePeriod(ctx context.Context, companyID, employeeID string, year, month int) ([]overtime.Overtime, error) {
	if f.findApprovedFn != nil {
		return f.findApprovedFn(ctx, companyID, employeeID, year, month)
	}
	return nil, nil
}

type fakeLoanRepository struct {
	findActiveByEmployeeFn func(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error)
	recordRecoveryFn       func(ctx context.Context, companyID, loanID string, entry loan.RecoveryEntry) error
}

func (f *fakeLoanRepository) WithTx(tx *gorm.DB) loan.Repository { return f }

func (f *fakeLoanRepository) FindActiveByEmployee(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLoanRepository) RecordRecovery(ctx context.Context, companyID, loanID string, entry loan.RecoveryEntry) error {
	if f.recordRecoveryFn != nil {
		return f.recordRecoveryFn(ctx, companyID, loanID, entry)
	}
	return nil
}

type fakeLeaveRepository struct {
	countUnpaidDaysFn func(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (int, error)
}

func (f *fakeLeaveRepository) CountUnpaidDays(ctx context.Context, companyID, employeeID string, periodStart, periodEnd time.Time) (int, error) {
	if f.countUnpaidDaysFn != nil {
		return f.countUnpaidDaysFn(ctx, companyID, employeeID, periodStart, periodEnd)
	}
	return 0, nil
}

type fakeSubsidiaryRepository struct {
	findByIDFn func(ctx context.Context, id string) (*subsidiary.Subsidiary, error)
}

func (f *fakeSubsidiaryRepository) FindByID(ctx context.Context, id string) (*subsidiary.Subsidiary, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return &subsidiary.Subsidiary{
		ID:                   uuid.MustParse(id),
		Name:                 "Test Subsidiary",
		CEOApprovalThreshold: 100_000_000,
		FiscalYearStartMonth: 7,
		ProrationMode:        "calendar_days",
		RoundingMode:         "round",
	}, nil
}

func (f *fakeSubsidiaryRepository) UpdateSettings(ctx context.Context, s *subsidiary.Subsidiary) error {
	return nil
}

type payrollServiceDeps struct {
	db           *sql.DB
	sqlMock      sqlmock.Sqlmock
	repo         *fakePayrollRepository
	employees    *fakeEmployeeRepository
	contracts    *fakeContractRepository
	overtimes    *fakeOvertimeRepository
	loans        *fakeLoanRepository
	leaves       *fakeLeaveRepository
	subsidiaries *fakeSubsidiaryRepository
	service      payroll.Service
}

func setupPayrollServiceTest(t *testing.T) *payrollServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	deps := &payrollServiceDeps{
		db:           db,
		sqlMock:      sqlMock,
		repo:         &fakePayrollRepository{},
		employees:    &fakeEmployeeRepository{},
		contracts:    &fakeContractRepository{},
		overtimes:    &fakeOvertimeRepository{},
		loans:        &fakeLoanRepository{},
		leaves:       &fakeLeaveRepository{},
		subsidiaries: &fakeSubsidiaryRepository{},
	}
	deps.service = payroll.NewService(
		gormDB,
		deps.repo,
		deps.employees,
		deps.contracts,
		deps.overtimes,
		deps.loans,
		deps.leaves,
		deps.subsidiaries,
		tax.DefaultConfig(),
	)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func activeEmployee(id uuid.UUID) *employee.Employee {
	return &employee.Employee{
		ID:               id,
		EmployeeNumber:   "EMP-0001",
		FullName:         "Akello Grace",
		Department:       "Engineering",
		EmploymentStatus: employee.StatusActive,
		JoinDate:         time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod:    employee.PaymentMethodBankTransfer,
		PaymentFrequency: "monthly",
	}
}

func activeContract(employeeID uuid.UUID, baseSalary int64, allowances contract.AllowanceList) *contract.Contract {
	return &contract.Contract{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		BaseSalary:    baseSalary,
		Allowances:    allowances,
		Status:        contract.StatusActive,
		EffectiveDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPayrollService_Calculate_FullMonth(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	employeeID := uuid.New()

	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 1_000_000, contract.AllowanceList{
			{Type: contract.AllowanceHousing, Name: "Housing", Amount: 200_000},
			{Type: contract.AllowanceMedical, Name: "Medical", Amount: 100_000},
		}), nil
	}

	var savedYTD *payroll.PayrollYTD
	deps.repo.saveYTDFn = func(ctx context.Context, ytd *payroll.PayrollYTD) error {
		savedYTD = ytd
		return nil
	}

	resp, err := deps.service.Calculate(ctx, companyID, actorID, payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1_300_000), resp.GrossPay)
	assert.Equal(t, int64(1_200_000), resp.TaxableIncome)
	assert.Equal(t, int64(262_000), resp.PAYE.TotalTax)
	assert.Equal(t, int64(60_000), resp.NSSF.EmployeeContribution)
	assert.Equal(t, int64(120_000), resp.NSSF.EmployerContribution)
	// Projected annual 15.6M lands in the top band: 100,000 over 12 months.
	assert.Equal(t, int64(8_333), resp.LST.MonthlyAmount)
	assert.Equal(t, int64(330_333), resp.TotalDeductions)
	assert.Equal(t, int64(969_667), resp.NetPay)
	assert.Equal(t, resp.GrossPay-resp.TotalDeductions, resp.NetPay)
	assert.Equal(t, payroll.StatusCalculated, resp.Status)
	assert.Equal(t, 1.0, resp.ProrationFactor)

	assert.NotNil(t, savedYTD)
	assert.Equal(t, 2026, savedYTD.FiscalYear)
	assert.Equal(t, int64(1_300_000), savedYTD.GrossEarnings)
	assert.Equal(t, int64(262_000), savedYTD.PAYEPaid)
	assert.Equal(t, 1, savedYTD.PeriodsCount)

	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_EmployeeNotFound(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: uuid.New().String(),
		Year:       2026,
		Month:      7,
	})

	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)
}

func TestPayrollService_Calculate_TerminatedEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		emp := activeEmployee(employeeID)
		emp.EmploymentStatus = employee.StatusTerminated
		return emp, nil
	}

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.ErrorIs(t, err, payrollerrors.ErrInvalidEmploymentStatus)
}

func TestPayrollService_Calculate_NoActiveContract(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.ErrorIs(t, err, payrollerrors.ErrNoActiveContract)
}

func TestPayrollService_Calculate_AlreadyCalculated(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 1_000_000, nil), nil
	}
	deps.repo.findByEmployeePeriodFn = func(ctx context.Context, companyID, employeeID string, year, month int) (*payroll.EmployeePayroll, error) {
		return &payroll.EmployeePayroll{ID: uuid.New(), Status: payroll.StatusCalculated, Version: 1}, nil
	}

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.ErrorIs(t, err, payrollerrors.ErrAlreadyCalculated)
}

func TestPayrollService_Calculate_PaidIsImmutable(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 1_000_000, nil), nil
	}
	deps.repo.findByEmployeePeriodFn = func(ctx context.Context, companyID, employeeID string, year, month int) (*payroll.EmployeePayroll, error) {
		return &payroll.EmployeePayroll{ID: uuid.New(), Status: payroll.StatusPaid, Version: 3}, nil
	}

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID:  employeeID.String(),
		Year:        2026,
		Month:       7,
		Recalculate: true,
	})

	assert.ErrorIs(t, err, payrollerrors.ErrImmutableOncePaid)
}

func TestPayrollService_Calculate_MidMonthJoiner(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		emp := activeEmployee(employeeID)
		emp.JoinDate = time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC)
		return emp, nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 620_000, nil), nil
	}

	resp, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.NoError(t, err)
	assert.Equal(t, 16, resp.WorkedDays)
	assert.Equal(t, 31, resp.TotalDays)
	assert.Equal(t, "joining", resp.ProrationReason)
	// 620,000 * 16/31 = 320,000 exactly.
	assert.Equal(t, int64(320_000), resp.GrossPay)
	assert.Equal(t, int64(8_500), resp.PAYE.TotalTax)
	assert.Equal(t, int64(16_000), resp.NSSF.EmployeeContribution)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_OvertimePay(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		// 416,000 / 208 hours = 2,000 per hour.
		return activeContract(uuid.MustParse(employeeID), 416_000, nil), nil
	}
	deps.overtimes.findApprovedFn = func(ctx context.Context, companyID, employeeID string, year, month int) ([]overtime.Overtime, error) {
		return []overtime.Overtime{
			{Hours: 10, OvertimeType: overtime.TypeRegular, Status: overtime.StatusApproved},
			{Hours: 5, OvertimeType: overtime.TypeHoliday, Status: overtime.StatusApproved},
		}, nil
	}

	resp, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.NoError(t, err)
	// 2,000 * 10 * 1.5 + 2,000 * 5 * 2.0 = 30,000 + 20,000.
	assert.Equal(t, int64(466_000), resp.GrossPay)
	assert.Len(t, resp.Earnings, 3)
	assert.Equal(t, int64(30_000), resp.Earnings[1].Amount)
	assert.Equal(t, int64(20_000), resp.Earnings[2].Amount)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_Recalculation(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	existingID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 1_200_000, nil), nil
	}
	deps.repo.findByEmployeePeriodFn = func(ctx context.Context, companyID, employeeID string, year, month int) (*payroll.EmployeePayroll, error) {
		return &payroll.EmployeePayroll{
			ID:                       existingID,
			Status:                   payroll.StatusCalculated,
			Version:                  1,
			GrossPay:                 1_000_000,
			TaxableIncome:            1_000_000,
			PAYE:                     payroll.PAYEDetail{PAYEBreakdown: tax.PAYEBreakdown{TotalTax: 202_000}},
			NSSF:                     payroll.NSSFDetail{NSSFBreakdown: tax.NSSFBreakdown{EmployeeContribution: 50_000, EmployerContribution: 100_000}},
			LST:                      payroll.LSTDetail{LSTBreakdown: tax.LSTBreakdown{MonthlyAmount: 5_000}},
			TotalDeductions:          257_000,
			TotalStatutoryDeductions: 257_000,
			NetPay:                   743_000,
		}, nil
	}
	deps.repo.getYTDFn = func(ctx context.Context, companyID, empID string, fiscalYear int) (*payroll.PayrollYTD, error) {
		return &payroll.PayrollYTD{
			ID:            uuid.New(),
			EmployeeID:    employeeID,
			FiscalYear:    fiscalYear,
			GrossEarnings: 1_000_000,
			TaxableIncome: 1_000_000,
			PAYEPaid:      202_000,
			NSSFEmployee:  50_000,
			NSSFEmployer:  100_000,
			LSTPaid:       5_000,
			NetPay:        743_000,
			PeriodsCount:  1,
			Version:       2,
		}, nil
	}

	updated := false
	deps.repo.updateFn = func(ctx context.Context, p *payroll.EmployeePayroll) error {
		updated = true
		assert.Equal(t, existingID, p.ID)
		return nil
	}
	deps.repo.createFn = func(ctx context.Context, p *payroll.EmployeePayroll) error {
		t.Fatal("recalculation must update in place, not create")
		return nil
	}

	var savedYTD *payroll.PayrollYTD
	deps.repo.saveYTDFn = func(ctx context.Context, ytd *payroll.PayrollYTD) error {
		savedYTD = ytd
		return nil
	}

	resp, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID:  employeeID.String(),
		Year:        2026,
		Month:       7,
		Recalculate: true,
	})

	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, int64(1_200_000), resp.GrossPay)
	assert.Equal(t, int64(262_000), resp.PAYE.TotalTax)

	// The aggregate reflects only the new run, not old-plus-new.
	assert.NotNil(t, savedYTD)
	assert.Equal(t, int64(1_200_000), savedYTD.GrossEarnings)
	assert.Equal(t, int64(262_000), savedYTD.PAYEPaid)
	assert.Equal(t, 1, savedYTD.PeriodsCount)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_LoanRecoverySkipsUnaffordable(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 300_000, nil), nil
	}
	deps.loans.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error) {
		return []loan.Loan{
			{ID: uuid.New(), Reference: "LN-001", MonthlyInstallment: 200_000, TotalInstallments: 10, InstallmentsPaid: 2},
			{ID: uuid.New(), Reference: "LN-002", MonthlyInstallment: 100_000, TotalInstallments: 5},
		}, nil
	}

	resp, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
	})

	assert.NoError(t, err)

	recoveries := []payroll.DeductionItem{}
	for _, d := range resp.Deductions {
		if d.Type == payroll.DeductionLoanRecovery {
			recoveries = append(recoveries, d)
		}
	}
	// Statutory deductions on 300,000 leave 277,667: the first installment
	// fits, the second would push net pay negative and is skipped.
	assert.Len(t, recoveries, 1)
	assert.Equal(t, int64(200_000), recoveries[0].Amount)
	assert.Equal(t, 3, recoveries[0].Installment)
	assert.Equal(t, int64(77_667), resp.NetPay)
	assert.GreaterOrEqual(t, resp.NetPay, int64(0))
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_CourtAndRecoveryNotVoluntary(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)

	deps.employees.findByIDAndCompanyFn = func(ctx context.Context, companyID, id string) (*employee.Employee, error) {
		return activeEmployee(employeeID), nil
	}
	deps.contracts.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string, asOf time.Time) (*contract.Contract, error) {
		return activeContract(uuid.MustParse(employeeID), 1_000_000, nil), nil
	}
	deps.loans.findActiveByEmployeeFn = func(ctx context.Context, companyID, employeeID string) ([]loan.Loan, error) {
		return []loan.Loan{
			{ID: uuid.New(), Reference: "LN-003", MonthlyInstallment: 100_000, TotalInstallments: 5},
		}, nil
	}

	resp, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID: employeeID.String(),
		Year:       2026,
		Month:      7,
		AdditionalDeductions: []payroll.ManualDeduction{
			{Name: "Child support", Amount: 50_000, Category: payroll.CategoryCourt},
			{Name: "Staff sacco", Amount: 20_000},
		},
	})

	assert.NoError(t, err)
	// Only the sacco item is voluntary; the court order and the loan
	// installment count toward the grand total only.
	assert.Equal(t, int64(20_000), resp.TotalVoluntaryDeductions)
	assert.Equal(t, resp.TotalStatutoryDeductions+170_000, resp.TotalDeductions)
	assert.Equal(t, resp.GrossPay-resp.TotalDeductions, resp.NetPay)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestPayrollService_Calculate_NegativeManualAmount(t *testing.T) {
	ctx := context.Background()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.Calculate(ctx, uuid.New().String(), uuid.New().String(), payroll.CalculateRequest{
		EmployeeID:         uuid.New().String(),
		Year:               2026,
		Month:              7,
		AdditionalEarnings: []payroll.ManualEarning{{Name: "Clawback", Amount: -50_000}},
	})

	assert.ErrorIs(t, err, payrollerrors.ErrNegativeAmount)
}

func TestPayrollService_GetYTD_EmptyReturnsZero(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	deps := setupPayrollServiceTest(t)
	defer deps.db.Close()

	resp, err := deps.service.GetYTD(ctx, uuid.New().String(), employeeID.String(), 2026)

	assert.NoError(t, err)
	assert.Equal(t, employeeID.String(), resp.EmployeeID)
	assert.Equal(t, 2026, resp.FiscalYear)
	assert.Equal(t, int64(0), resp.GrossEarnings)
	assert.Equal(t, 0, resp.PeriodsCount)
}
