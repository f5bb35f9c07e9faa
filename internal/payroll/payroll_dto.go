package payroll

import (
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/tax"
)

type ManualEarning struct {
	Name           string `json:"name" binding:"required"`
	Amount         int64  `json:"amount" binding:"required"`
	Taxable        bool   `json:"taxable"`
	NSSFApplicable bool   `json:"nssf_applicable"`
}

type ManualDeduction struct {
	Name     string `json:"name" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
	Category string `json:"category" binding:"omitempty,oneof=voluntary court"`
}

type CalculateRequest struct {
	EmployeeID           string            `json:"employee_id" binding:"required,uuid"`
	Year                 int               `json:"year" binding:"required,min=2000,max=2100"`
	Month                int               `json:"month" binding:"required,min=1,max=12"`
	Recalculate          bool              `json:"recalculate"`
	AdditionalEarnings   []ManualEarning   `json:"additional_earnings" binding:"omitempty,dive"`
	AdditionalDeductions []ManualDeduction `json:"additional_deductions" binding:"omitempty,dive"`
}

type PayrollResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`

	EmployeeNumber string `json:"employee_number"`
	EmployeeName   string `json:"employee_name"`
	Department     string `json:"department,omitempty"`

	Year        int    `json:"year"`
	Month       int    `json:"month"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PaymentDate string `json:"payment_date"`

	WorkedDays      int     `json:"worked_days"`
	TotalDays       int     `json:"total_days"`
	ProrationFactor float64 `json:"proration_factor"`
	ProrationReason string  `json:"proration_reason"`

	Earnings   []EarningItem   `json:"earnings"`
	Deductions []DeductionItem `json:"deductions"`

	PAYE tax.PAYEBreakdown `json:"paye"`
	NSSF tax.NSSFBreakdown `json:"nssf"`
	LST  tax.LSTBreakdown  `json:"lst"`

	TotalEarnings            int64 `json:"total_earnings"`
	GrossPay                 int64 `json:"gross_pay"`
	TaxableIncome            int64 `json:"taxable_income"`
	TotalStatutoryDeductions int64 `json:"total_statutory_deductions"`
	TotalVoluntaryDeductions int64 `json:"total_voluntary_deductions"`
	TotalDeductions          int64 `json:"total_deductions"`
	NetPay                   int64 `json:"net_pay"`

	PaymentMethod string  `json:"payment_method"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`

	Status  string `json:"status"`
	BatchID string `json:"batch_id,omitempty"`
	Version int    `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayslipResponse is the employee-facing view: same numbers as the payroll
// record but without internal versioning or batch linkage.
type PayslipResponse struct {
	PayrollID      string `json:"payroll_id"`
	EmployeeNumber string `json:"employee_number"`
	EmployeeName   string `json:"employee_name"`
	Department     string `json:"department,omitempty"`

	Period      string `json:"period"`
	PaymentDate string `json:"payment_date"`

	Earnings   []EarningItem   `json:"earnings"`
	Deductions []DeductionItem `json:"deductions"`

	GrossPay        int64 `json:"gross_pay"`
	TotalDeductions int64 `json:"total_deductions"`
	NetPay          int64 `json:"net_pay"`

	PaymentMethod string  `json:"payment_method"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountNumber *string `json:"account_number,omitempty"`
}

type YTDResponse struct {
	EmployeeID string `json:"employee_id"`
	FiscalYear int    `json:"fiscal_year"`

	GrossEarnings   int64 `json:"gross_earnings"`
	TaxableIncome   int64 `json:"taxable_income"`
	PAYEPaid        int64 `json:"paye_paid"`
	NSSFEmployee    int64 `json:"nssf_employee"`
	NSSFEmployer    int64 `json:"nssf_employer"`
	LSTPaid         int64 `json:"lst_paid"`
	OtherDeductions int64 `json:"other_deductions"`
	NetPay          int64 `json:"net_pay"`
	PeriodsCount    int   `json:"periods_count"`
}

func mapToResponse(p EmployeePayroll) PayrollResponse {
	resp := PayrollResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),

		EmployeeNumber: p.EmployeeNumber,
		EmployeeName:   p.EmployeeName,
		Department:     p.Department,

		Year:        p.Year,
		Month:       p.Month,
		PeriodStart: p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   p.PeriodEnd.Format("2006-01-02"),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),

		WorkedDays:      p.WorkedDays,
		TotalDays:       p.TotalDays,
		ProrationFactor: p.ProrationFactor,
		ProrationReason: string(p.ProrationReason),

		Earnings:   p.Earnings,
		Deductions: p.Deductions,

		PAYE: p.PAYE.PAYEBreakdown,
		NSSF: p.NSSF.NSSFBreakdown,
		LST:  p.LST.LSTBreakdown,

		TotalEarnings:            p.TotalEarnings,
		GrossPay:                 p.GrossPay,
		TaxableIncome:            p.TaxableIncome,
		TotalStatutoryDeductions: p.TotalStatutoryDeductions,
		TotalVoluntaryDeductions: p.TotalVoluntaryDeductions,
		TotalDeductions:          p.TotalDeductions,
		NetPay:                   p.NetPay,

		PaymentMethod: p.PaymentMethod,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,

		Status:  p.Status,
		Version: p.Version,

		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.PayrollPeriodID != nil {
		resp.BatchID = p.PayrollPeriodID.String()
	}
	return resp
}

func mapToListResponse(payrolls []EmployeePayroll) []PayrollResponse {
	responses := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		responses = append(responses, mapToResponse(p))
	}
	return responses
}

func mapToPayslip(p EmployeePayroll) PayslipResponse {
	return PayslipResponse{
		PayrollID:      p.ID.String(),
		EmployeeNumber: p.EmployeeNumber,
		EmployeeName:   p.EmployeeName,
		Department:     p.Department,

		Period:      p.PeriodStart.Format("January 2006"),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),

		Earnings:   p.Earnings,
		Deductions: p.Deductions,

		GrossPay:        p.GrossPay,
		TotalDeductions: p.TotalDeductions,
		NetPay:          p.NetPay,

		PaymentMethod: p.PaymentMethod,
		BankName:      p.BankName,
		AccountNumber: p.AccountNumber,
	}
}

func mapToYTDResponse(ytd PayrollYTD) YTDResponse {
	return YTDResponse{
		EmployeeID: ytd.EmployeeID.String(),
		FiscalYear: ytd.FiscalYear,

		GrossEarnings:   ytd.GrossEarnings,
		TaxableIncome:   ytd.TaxableIncome,
		PAYEPaid:        ytd.PAYEPaid,
		NSSFEmployee:    ytd.NSSFEmployee,
		NSSFEmployer:    ytd.NSSFEmployer,
		LSTPaid:         ytd.LSTPaid,
		OtherDeductions: ytd.OtherDeductions,
		NetPay:          ytd.NetPay,
		PeriodsCount:    ytd.PeriodsCount,
	}
}
