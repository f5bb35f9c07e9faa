package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
	StatusSuspended  = "suspended"
)

const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodCash         = "cash"
	PaymentMethodCheque       = "cheque"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company_status"`
	EmployeeNumber string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_employee_number"`
	FullName       string    `gorm:"type:varchar(120);not null"`
	Department     string    `gorm:"type:varchar(80);index"`

	EmploymentStatus   string `gorm:"type:varchar(20);not null;default:'active';index:idx_employees_company_status"`
	EmploymentCategory string `gorm:"type:varchar(30);not null;default:'permanent'"`

	JoinDate  time.Time  `gorm:"type:date;not null"`
	ExitDate  *time.Time `gorm:"type:date"`
	BirthDate *time.Time `gorm:"type:date"`

	NSSFExemptionReason *string `gorm:"type:text"`

	PaymentMethod    string  `gorm:"type:varchar(20);not null;default:'bank_transfer'"`
	BankName         *string `gorm:"type:varchar(80)"`
	AccountNumber    *string `gorm:"type:varchar(40)"`
	PaymentFrequency string  `gorm:"type:varchar(20);not null;default:'monthly'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payable reports whether the employee may be included in a payroll run.
func (e Employee) Payable() bool {
	return e.EmploymentStatus == StatusActive || e.EmploymentStatus == StatusOnLeave
}

// AgeAt returns the employee's age at the given date, or 0 when no birth date
// is on record (the tax layer substitutes its configured default).
func (e Employee) AgeAt(at time.Time) int {
	if e.BirthDate == nil {
		return 0
	}
	age := at.Year() - e.BirthDate.Year()
	anniversary := e.BirthDate.AddDate(age, 0, 0)
	if anniversary.After(at) {
		age--
	}
	return age
}
