package payment

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusPartial    = "partial"
)

const (
	MethodBankTransfer = "bank_transfer"
	MethodMobileMoney  = "mobile_money"
	MethodCash         = "cash"
	MethodCheque       = "cheque"
)

// TransferLine is one employee's payout inside a payment batch. Amounts and
// routing are snapshots from the payroll record at partition time.
type TransferLine struct {
	PayrollID      string  `json:"payroll_id"`
	EmployeeID     string  `json:"employee_id"`
	EmployeeNumber string  `json:"employee_number"`
	EmployeeName   string  `json:"employee_name"`
	Amount         int64   `json:"amount"`
	BankName       *string `json:"bank_name,omitempty"`
	AccountNumber  *string `json:"account_number,omitempty"`
}

type TransferLines []TransferLine

func (l TransferLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *TransferLines) Scan(value any) error { return scanJSONB(value, l) }

type FailedEmployeeIDs []string

func (f FailedEmployeeIDs) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	return string(b), err
}

func (f *FailedEmployeeIDs) Scan(value any) error { return scanJSONB(value, f) }

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

// PaymentBatch is one disbursement instruction file: a single payment method,
// and for bank transfers a single bank.
type PaymentBatch struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PayrollBatchID uuid.UUID `gorm:"type:uuid;not null;index"`

	Method   string  `gorm:"type:varchar(20);not null"`
	BankName *string `gorm:"type:varchar(80)"`

	Lines         TransferLines `gorm:"type:jsonb;not null;default:'[]'"`
	EmployeeCount int           `gorm:"not null"`
	TotalAmount   int64         `gorm:"type:bigint;not null"`

	Status            string            `gorm:"type:varchar(20);not null;default:'pending'"`
	ProcessedCount    int               `gorm:"not null;default:0"`
	FailedEmployees   FailedEmployeeIDs `gorm:"type:jsonb;not null;default:'[]'"`
	ExternalReference *string           `gorm:"type:varchar(80)"`
	FailureReason     *string           `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
