package loan

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusSettled   = "settled"
	StatusSuspended = "suspended"
)

// RecoveryEntry is one append-only record of an installment recovered through
// payroll. Past entries are never mutated.
type RecoveryEntry struct {
	PayrollID   string    `json:"payroll_id"`
	Installment int       `json:"installment"`
	Amount      int64     `json:"amount"`
	RecoveredAt time.Time `json:"recovered_at"`
}

type RecoveryHistory []RecoveryEntry

func (h RecoveryHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	return string(b), err
}

func (h *RecoveryHistory) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported jsonb scan source")
	}
}

type Loan struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Reference         string `gorm:"type:varchar(40);not null"`
	PrincipalAmount   int64  `gorm:"type:bigint;not null"`
	MonthlyInstallment int64 `gorm:"type:bigint;not null"`
	TotalInstallments  int   `gorm:"not null"`
	InstallmentsPaid   int   `gorm:"not null;default:0"`

	Status          string          `gorm:"type:varchar(20);not null;default:'active'"`
	RecoveryHistory RecoveryHistory `gorm:"type:jsonb;not null;default:'[]'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NextInstallment is the 1-based number of the installment a payroll run
// would recover next.
func (l Loan) NextInstallment() int {
	return l.InstallmentsPaid + 1
}
