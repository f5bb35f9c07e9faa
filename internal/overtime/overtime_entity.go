package overtime

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeRegular = "regular"
	TypeWeekend = "weekend"
	TypeHoliday = "holiday"
)

// Multiplier returns the statutory pay multiplier for an overtime type.
func Multiplier(overtimeType string) float64 {
	switch overtimeType {
	case TypeWeekend, TypeHoliday:
		return 2.0
	default:
		return 1.5
	}
}

type Overtime struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index:idx_overtime_company_period"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Year  int `gorm:"not null;index:idx_overtime_company_period"`
	Month int `gorm:"not null;index:idx_overtime_company_period"`

	Date         time.Time `gorm:"type:date;not null"`
	Hours        float64   `gorm:"type:numeric(5,2);not null"`
	OvertimeType string    `gorm:"type:varchar(20);not null;default:'regular'"`

	Status     string     `gorm:"type:varchar(20);not null;default:'pending'"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
