package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/dawingroup/dawinos-sub007/internal/proration"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	"github.com/google/uuid"
)

const (
	StatusDraft      = "draft"
	StatusCalculated = "calculated"
	StatusReviewed   = "reviewed"
	StatusApproved   = "approved"
	StatusPaid       = "paid"
	StatusReversed   = "reversed"
)

const (
	EarningBasicSalary = "basic_salary"
	EarningAllowance   = "allowance"
	EarningOvertime    = "overtime"
	EarningAdjustment  = "adjustment"
)

const (
	DeductionPAYE         = "paye"
	DeductionNSSFEmployee = "nssf_employee"
	DeductionLST          = "lst"
	DeductionContract     = "contract"
	DeductionLoanRecovery = "loan_recovery"
	DeductionAdjustment   = "adjustment"
)

const (
	CategoryStatutory = "statutory"
	CategoryVoluntary = "voluntary"
	CategoryRecovery  = "recovery"
	CategoryCourt     = "court"
)

// EarningItem carries independently computed taxable and NSSF-applicable
// sub-amounts because an item may be only partially taxable.
type EarningItem struct {
	Type           string `json:"type"`
	Name           string `json:"name"`
	Amount         int64  `json:"amount"`
	Taxable        bool   `json:"taxable"`
	NSSFApplicable bool   `json:"nssf_applicable"`
	TaxableAmount  int64  `json:"taxable_amount"`
	NSSFAmount     int64  `json:"nssf_amount"`
}

type DeductionItem struct {
	Type      string `json:"type"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Mandatory bool   `json:"mandatory"`

	// Loan recovery metadata, present only for recovery items.
	LoanID            *string `json:"loan_id,omitempty"`
	Installment       int     `json:"installment,omitempty"`
	TotalInstallments int     `json:"total_installments,omitempty"`
}

type EarningList []EarningItem

func (l EarningList) Value() (driver.Value, error)  { return marshalJSONB(l) }
func (l *EarningList) Scan(value any) error         { return scanJSONB(value, l) }

type DeductionItems []DeductionItem

func (l DeductionItems) Value() (driver.Value, error) { return marshalJSONB(l) }
func (l *DeductionItems) Scan(value any) error        { return scanJSONB(value, l) }

type PAYEDetail struct{ tax.PAYEBreakdown }

func (d PAYEDetail) Value() (driver.Value, error) { return marshalJSONB(d.PAYEBreakdown) }
func (d *PAYEDetail) Scan(value any) error        { return scanJSONB(value, &d.PAYEBreakdown) }

type NSSFDetail struct{ tax.NSSFBreakdown }

func (d NSSFDetail) Value() (driver.Value, error) { return marshalJSONB(d.NSSFBreakdown) }
func (d *NSSFDetail) Scan(value any) error        { return scanJSONB(value, &d.NSSFBreakdown) }

type LSTDetail struct{ tax.LSTBreakdown }

func (d LSTDetail) Value() (driver.Value, error) { return marshalJSONB(d.LSTBreakdown) }
func (d *LSTDetail) Scan(value any) error        { return scanJSONB(value, &d.LSTBreakdown) }

func marshalJSONB(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func scanJSONB(value, dest any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported jsonb scan source")
	}
}

// EmployeePayroll is one employee's payroll for one period. Once the record
// reaches paid it is immutable except for reversal.
type EmployeePayroll struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_payrolls_company_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_payrolls_employee_period,unique"`

	EmployeeNumber string    `gorm:"type:varchar(30);not null"`
	EmployeeName   string    `gorm:"type:varchar(120);not null"`
	Department     string    `gorm:"type:varchar(80)"`
	ContractID     uuid.UUID `gorm:"type:uuid;not null"`

	Year             int       `gorm:"not null;index:idx_payrolls_company_period;index:idx_payrolls_employee_period,unique"`
	Month            int       `gorm:"not null;index:idx_payrolls_company_period;index:idx_payrolls_employee_period,unique"`
	PeriodStart      time.Time `gorm:"type:date;not null"`
	PeriodEnd        time.Time `gorm:"type:date;not null"`
	PaymentDate      time.Time `gorm:"type:date;not null"`
	PaymentFrequency string    `gorm:"type:varchar(20);not null;default:'monthly'"`

	WorkedDays      int              `gorm:"not null"`
	TotalDays       int              `gorm:"not null"`
	ProrationFactor float64          `gorm:"type:numeric(9,6);not null;default:1"`
	ProrationReason proration.Reason `gorm:"type:varchar(20);not null;default:'none'"`

	Earnings   EarningList    `gorm:"type:jsonb;not null;default:'[]'"`
	Deductions DeductionItems `gorm:"type:jsonb;not null;default:'[]'"`

	PAYE PAYEDetail `gorm:"type:jsonb"`
	NSSF NSSFDetail `gorm:"type:jsonb"`
	LST  LSTDetail  `gorm:"type:jsonb"`

	TotalEarnings            int64 `gorm:"type:bigint;not null;default:0"`
	GrossPay                 int64 `gorm:"type:bigint;not null;default:0"`
	TaxableIncome            int64 `gorm:"type:bigint;not null;default:0"`
	NSSFApplicableIncome     int64 `gorm:"type:bigint;not null;default:0"`
	TotalStatutoryDeductions int64 `gorm:"type:bigint;not null;default:0"`
	TotalVoluntaryDeductions int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions          int64 `gorm:"type:bigint;not null;default:0"`
	NetPay                   int64 `gorm:"type:bigint;not null;default:0"`

	// Payment routing snapshot taken at calculation time so a later change to
	// the employee record cannot redirect an approved payment.
	PaymentMethod string  `gorm:"type:varchar(20);not null;default:'bank_transfer'"`
	BankName      *string `gorm:"type:varchar(80)"`
	AccountNumber *string `gorm:"type:varchar(40)"`

	Status          string     `gorm:"type:varchar(20);not null;default:'draft';index"`
	Version         int        `gorm:"not null;default:1"`
	PayrollPeriodID *uuid.UUID `gorm:"type:uuid;index"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollYTD is the per-(employee, fiscal year) cumulative aggregate. It is
// read-modify-written under an optimistic version check; concurrent periods
// for the same employee must serialize.
type PayrollYTD struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_ytd_employee_year,unique"`
	FiscalYear int       `gorm:"not null;index:idx_ytd_employee_year,unique"`

	GrossEarnings   int64 `gorm:"type:bigint;not null;default:0"`
	TaxableIncome   int64 `gorm:"type:bigint;not null;default:0"`
	PAYEPaid        int64 `gorm:"type:bigint;not null;default:0"`
	NSSFEmployee    int64 `gorm:"type:bigint;not null;default:0"`
	NSSFEmployer    int64 `gorm:"type:bigint;not null;default:0"`
	LSTPaid         int64 `gorm:"type:bigint;not null;default:0"`
	OtherDeductions int64 `gorm:"type:bigint;not null;default:0"`
	NetPay          int64 `gorm:"type:bigint;not null;default:0"`

	PeriodsCount int `gorm:"not null;default:0"`
	Version      int `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
