package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/contract"
	"github.com/dawingroup/dawinos-sub007/internal/employee"
	"github.com/dawingroup/dawinos-sub007/internal/leave"
	"github.com/dawingroup/dawinos-sub007/internal/loan"
	"github.com/dawingroup/dawinos-sub007/internal/overtime"
	payrollerrors "github.com/dawingroup/dawinos-sub007/internal/payroll/errors"
	"github.com/dawingroup/dawinos-sub007/internal/proration"
	"github.com/dawingroup/dawinos-sub007/internal/shared/money"
	"github.com/dawingroup/dawinos-sub007/internal/subsidiary"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MonthlyWorkingHours converts a monthly base salary into an hourly rate for
// overtime pay: a 48-hour statutory week over an average month.
const MonthlyWorkingHours = 208

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Calculate(ctx context.Context, companyID, actorID string, req CalculateRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, filter QueryFilter) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetPayslip(ctx context.Context, companyID, id string) (PayslipResponse, error)
	GetYTD(ctx context.Context, companyID, employeeID string, fiscalYear int) (YTDResponse, error)
}

type service struct {
	db           *gorm.DB
	repo         Repository
	employees    employee.Repository
	contracts    contract.Repository
	overtimes    overtime.Repository
	loans        loan.Repository
	leaves       leave.Repository
	subsidiaries subsidiary.Repository
	taxConfig    tax.Config
	logger       *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees employee.Repository,
	contracts contract.Repository,
	overtimes overtime.Repository,
	loans loan.Repository,
	leaves leave.Repository,
	subsidiaries subsidiary.Repository,
	taxConfig tax.Config,
) Service {
	return &service{
		db:           db,
		repo:         repo,
		employees:    employees,
		contracts:    contracts,
		overtimes:    overtimes,
		loans:        loans,
		leaves:       leaves,
		subsidiaries: subsidiaries,
		taxConfig:    taxConfig,
		logger:       zap.L().Named("payroll.service"),
	}
}

func (s *service) Calculate(
	ctx context.Context,
	companyID, actorID string,
	req CalculateRequest,
) (PayrollResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return PayrollResponse{}, payrollerrors.ErrInvalidActorID
	}
	if req.Month < 1 || req.Month > 12 {
		return PayrollResponse{}, payrollerrors.ErrInvalidPeriod
	}
	for _, e := range req.AdditionalEarnings {
		if e.Amount < 0 {
			return PayrollResponse{}, payrollerrors.ErrNegativeAmount
		}
	}
	for _, d := range req.AdditionalDeductions {
		if d.Amount < 0 {
			return PayrollResponse{}, payrollerrors.ErrNegativeAmount
		}
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)

	emp, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return PayrollResponse{}, err
	}
	if !emp.Payable() {
		return PayrollResponse{}, payrollerrors.ErrInvalidEmploymentStatus
	}

	ctr, err := s.contracts.FindActiveByEmployee(ctx, companyID, req.EmployeeID, periodEnd)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrNoActiveContract
		}
		return PayrollResponse{}, err
	}

	existing, err := s.repo.FindByEmployeePeriod(ctx, companyID, req.EmployeeID, req.Year, req.Month)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollResponse{}, err
	}
	if existing != nil {
		if existing.Status == StatusPaid {
			return PayrollResponse{}, payrollerrors.ErrImmutableOncePaid
		}
		if !req.Recalculate {
			return PayrollResponse{}, payrollerrors.ErrAlreadyCalculated
		}
		if existing.Status != StatusDraft && existing.Status != StatusCalculated {
			return PayrollResponse{}, payrollerrors.ErrAlreadyCalculated
		}
	}

	sub, err := s.subsidiaries.FindByID(ctx, companyID)
	if err != nil {
		return PayrollResponse{}, err
	}

	taxCfg := s.taxConfig
	if rounding := money.Rounding(sub.RoundingMode); rounding.Valid() {
		taxCfg.Rounding = rounding
	}

	unpaidDays, err := s.leaves.CountUnpaidDays(ctx, companyID, req.EmployeeID, periodStart, periodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}

	prorated := proration.Calculate(proration.Input{
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		JoinDate:        emp.JoinDate,
		ExitDate:        emp.ExitDate,
		UnpaidLeaveDays: unpaidDays,
		Mode:            proration.DenominatorMode(sub.ProrationMode),
	})

	overtimes, err := s.overtimes.FindApprovedByEmployeePeriod(ctx, companyID, req.EmployeeID, req.Year, req.Month)
	if err != nil {
		return PayrollResponse{}, err
	}

	earnings := buildEarnings(taxCfg, *ctr, overtimes, req.AdditionalEarnings, prorated.Factor)

	var totalEarnings, taxableIncome, nssfIncome int64
	for _, item := range earnings {
		totalEarnings += item.Amount
		taxableIncome += item.TaxableAmount
		nssfIncome += item.NSSFAmount
	}
	grossPay := totalEarnings

	paye := taxCfg.CalculatePAYE(taxableIncome)

	nssfOpts := tax.NSSFOptions{
		Age:                emp.AgeAt(periodEnd),
		EmploymentCategory: emp.EmploymentCategory,
	}
	if emp.NSSFExemptionReason != nil {
		nssfOpts.ExemptionReason = *emp.NSSFExemptionReason
	}
	nssf := taxCfg.CalculateNSSF(nssfIncome, nssfOpts)

	fiscalYear := sub.FiscalYearOf(req.Year, req.Month)
	remainingMonths := sub.RemainingFiscalMonths(req.Month)

	ytd, err := s.repo.GetYTD(ctx, companyID, req.EmployeeID, fiscalYear)
	if err != nil {
		return PayrollResponse{}, err
	}
	if ytd == nil {
		ytd = &PayrollYTD{
			ID:         uuid.New(),
			CompanyID:  companyUUID,
			EmployeeID: emp.ID,
			FiscalYear: fiscalYear,
		}
	}
	isRecalculation := existing != nil
	if isRecalculation {
		// Back out the previous run's figures so the aggregate and the LST
		// projection see only other periods.
		subtractFromYTD(ytd, *existing)
	}

	// LST spreads the remaining months including the current one.
	lst := taxCfg.CalculateLST(grossPay, ytd.GrossEarnings, ytd.LSTPaid, remainingMonths)

	activeLoans, err := s.loans.FindActiveByEmployee(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, err
	}

	deductions, totals := buildDeductions(*ctr, paye, nssf, lst, activeLoans, req.AdditionalDeductions, grossPay)

	record := &EmployeePayroll{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: emp.ID,

		EmployeeNumber: emp.EmployeeNumber,
		EmployeeName:   emp.FullName,
		Department:     emp.Department,
		ContractID:     ctr.ID,

		Year:             req.Year,
		Month:            req.Month,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		PaymentDate:      periodEnd,
		PaymentFrequency: emp.PaymentFrequency,

		WorkedDays:      prorated.WorkedDays,
		TotalDays:       prorated.TotalDays,
		ProrationFactor: prorated.Factor,
		ProrationReason: prorated.Reason,

		Earnings:   earnings,
		Deductions: deductions,

		PAYE: PAYEDetail{paye},
		NSSF: NSSFDetail{nssf},
		LST:  LSTDetail{lst},

		TotalEarnings:            totalEarnings,
		GrossPay:                 grossPay,
		TaxableIncome:            taxableIncome,
		NSSFApplicableIncome:     nssfIncome,
		TotalStatutoryDeductions: totals.statutory,
		TotalVoluntaryDeductions: totals.voluntary,
		TotalDeductions:          totals.total,
		NetPay:                   grossPay - totals.total,

		PaymentMethod: emp.PaymentMethod,
		BankName:      emp.BankName,
		AccountNumber: emp.AccountNumber,

		Status:    StatusCalculated,
		Version:   1,
		CreatedBy: actorUUID,
	}

	if isRecalculation {
		record.ID = existing.ID
		record.Version = existing.Version
		record.PayrollPeriodID = existing.PayrollPeriodID
		record.CreatedAt = existing.CreatedAt
	}

	addToYTD(ytd, *record)
	if !isRecalculation {
		ytd.PeriodsCount++
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return PayrollResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if isRecalculation {
		if err := qtx.Update(ctx, record); err != nil {
			return PayrollResponse{}, err
		}
	} else {
		if err := qtx.Create(ctx, record); err != nil {
			return PayrollResponse{}, err
		}
	}

	if err := qtx.SaveYTD(ctx, ytd); err != nil {
		return PayrollResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll calculated",
		zap.String("employee_id", req.EmployeeID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.Int64("net_pay", record.NetPay),
		zap.Bool("recalculation", isRecalculation),
	)

	return mapToResponse(*record), nil
}

func buildEarnings(
	taxCfg tax.Config,
	ctr contract.Contract,
	overtimes []overtime.Overtime,
	manual []ManualEarning,
	factor float64,
) EarningList {
	earnings := EarningList{}

	basic := taxCfg.Rounding.Apply(float64(ctr.BaseSalary) * factor)
	earnings = append(earnings, EarningItem{
		Type:           EarningBasicSalary,
		Name:           "Basic Salary",
		Amount:         basic,
		Taxable:        true,
		NSSFApplicable: true,
		TaxableAmount:  basic,
		NSSFAmount:     basic,
	})

	for _, allowance := range ctr.Allowances {
		amount := taxCfg.Rounding.Apply(float64(allowance.Amount) * factor)
		treatment := contract.TreatmentFor(allowance.Type)

		item := EarningItem{
			Type:           EarningAllowance,
			Name:           allowance.Name,
			Amount:         amount,
			Taxable:        treatment.Taxable,
			NSSFApplicable: treatment.NSSFApplicable,
		}
		if treatment.Taxable {
			item.TaxableAmount = amount
		}
		if treatment.NSSFApplicable {
			item.NSSFAmount = amount
		}
		earnings = append(earnings, item)
	}

	// Overtime is paid on the full contractual rate, not the prorated one.
	hourlyRate := float64(ctr.BaseSalary) / MonthlyWorkingHours
	for _, entry := range overtimes {
		amount := taxCfg.Rounding.Apply(hourlyRate * entry.Hours * overtime.Multiplier(entry.OvertimeType))
		earnings = append(earnings, EarningItem{
			Type:           EarningOvertime,
			Name:           fmt.Sprintf("Overtime (%s, %.1fh)", entry.OvertimeType, entry.Hours),
			Amount:         amount,
			Taxable:        true,
			NSSFApplicable: true,
			TaxableAmount:  amount,
			NSSFAmount:     amount,
		})
	}

	for _, e := range manual {
		item := EarningItem{
			Type:           EarningAdjustment,
			Name:           e.Name,
			Amount:         e.Amount,
			Taxable:        e.Taxable,
			NSSFApplicable: e.NSSFApplicable,
		}
		if e.Taxable {
			item.TaxableAmount = e.Amount
		}
		if e.NSSFApplicable {
			item.NSSFAmount = e.Amount
		}
		earnings = append(earnings, item)
	}

	return earnings
}

type deductionTotals struct {
	statutory int64
	voluntary int64
	// other holds court orders and loan recoveries; they count toward the
	// grand total but are not voluntary items.
	other int64
	total     int64
}

// buildDeductions assembles statutory items first, then contractual and manual
// ones, then loan recoveries. A recovery installment that would push net pay
// negative is skipped whole; partial installments are never taken.
func buildDeductions(
	ctr contract.Contract,
	paye tax.PAYEBreakdown,
	nssf tax.NSSFBreakdown,
	lst tax.LSTBreakdown,
	activeLoans []loan.Loan,
	manual []ManualDeduction,
	grossPay int64,
) (DeductionItems, deductionTotals) {
	deductions := DeductionItems{}
	var totals deductionTotals

	if paye.TotalTax > 0 {
		deductions = append(deductions, DeductionItem{
			Type:      DeductionPAYE,
			Category:  CategoryStatutory,
			Name:      "PAYE",
			Amount:    paye.TotalTax,
			Mandatory: true,
		})
		totals.statutory += paye.TotalTax
	}
	if nssf.EmployeeContribution > 0 {
		deductions = append(deductions, DeductionItem{
			Type:      DeductionNSSFEmployee,
			Category:  CategoryStatutory,
			Name:      "NSSF (5%)",
			Amount:    nssf.EmployeeContribution,
			Mandatory: true,
		})
		totals.statutory += nssf.EmployeeContribution
	}
	if lst.MonthlyAmount > 0 {
		deductions = append(deductions, DeductionItem{
			Type:      DeductionLST,
			Category:  CategoryStatutory,
			Name:      "Local Service Tax",
			Amount:    lst.MonthlyAmount,
			Mandatory: true,
		})
		totals.statutory += lst.MonthlyAmount
	}

	for _, d := range ctr.Deductions {
		category := CategoryVoluntary
		if d.Statutory {
			category = CategoryStatutory
		}
		deductions = append(deductions, DeductionItem{
			Type:      DeductionContract,
			Category:  category,
			Name:      d.Name,
			Amount:    d.Amount,
			Mandatory: d.Statutory,
		})
		if d.Statutory {
			totals.statutory += d.Amount
		} else {
			totals.voluntary += d.Amount
		}
	}

	for _, d := range manual {
		category := d.Category
		if category == "" {
			category = CategoryVoluntary
		}
		deductions = append(deductions, DeductionItem{
			Type:     DeductionAdjustment,
			Category: category,
			Name:     d.Name,
			Amount:   d.Amount,
		})
		if category == CategoryVoluntary {
			totals.voluntary += d.Amount
		} else {
			totals.other += d.Amount
		}
	}

	remainingNet := grossPay - totals.statutory - totals.voluntary - totals.other
	for _, l := range activeLoans {
		installment := l.MonthlyInstallment
		if installment <= 0 || installment > remainingNet {
			continue
		}
		loanID := l.ID.String()
		deductions = append(deductions, DeductionItem{
			Type:              DeductionLoanRecovery,
			Category:          CategoryRecovery,
			Name:              "Loan Recovery " + l.Reference,
			Amount:            installment,
			LoanID:            &loanID,
			Installment:       l.NextInstallment(),
			TotalInstallments: l.TotalInstallments,
		})
		totals.other += installment
		remainingNet -= installment
	}

	totals.total = totals.statutory + totals.voluntary + totals.other
	return deductions, totals
}

func subtractFromYTD(ytd *PayrollYTD, p EmployeePayroll) {
	ytd.GrossEarnings -= p.GrossPay
	ytd.TaxableIncome -= p.TaxableIncome
	ytd.PAYEPaid -= p.PAYE.TotalTax
	ytd.NSSFEmployee -= p.NSSF.EmployeeContribution
	ytd.NSSFEmployer -= p.NSSF.EmployerContribution
	ytd.LSTPaid -= p.LST.MonthlyAmount
	ytd.OtherDeductions -= p.TotalDeductions - p.TotalStatutoryDeductions
	ytd.NetPay -= p.NetPay
}

func addToYTD(ytd *PayrollYTD, p EmployeePayroll) {
	ytd.GrossEarnings += p.GrossPay
	ytd.TaxableIncome += p.TaxableIncome
	ytd.PAYEPaid += p.PAYE.TotalTax
	ytd.NSSFEmployee += p.NSSF.EmployeeContribution
	ytd.NSSFEmployer += p.NSSF.EmployerContribution
	ytd.LSTPaid += p.LST.MonthlyAmount
	ytd.OtherDeductions += p.TotalDeductions - p.TotalStatutoryDeductions
	ytd.NetPay += p.NetPay
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
	filter QueryFilter,
) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayrollResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) GetPayslip(ctx context.Context, companyID, id string) (PayslipResponse, error) {
	payroll, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrPayrollNotFound
		}
		return PayslipResponse{}, err
	}

	return mapToPayslip(*payroll), nil
}

func (s *service) GetYTD(
	ctx context.Context,
	companyID, employeeID string,
	fiscalYear int,
) (YTDResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return YTDResponse{}, payrollerrors.ErrInvalidEmployeeID
	}

	ytd, err := s.repo.GetYTD(ctx, companyID, employeeID, fiscalYear)
	if err != nil {
		return YTDResponse{}, err
	}
	if ytd == nil {
		employeeUUID, _ := uuid.Parse(employeeID)
		return YTDResponse{EmployeeID: employeeUUID.String(), FiscalYear: fiscalYear}, nil
	}

	return mapToYTDResponse(*ytd), nil
}
