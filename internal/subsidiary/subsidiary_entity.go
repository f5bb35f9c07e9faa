package subsidiary

import (
	"time"

	"github.com/google/uuid"
)

// Subsidiary carries the per-company payroll policy knobs. Defaults are
// explicit here instead of being buried in the calculators.
type Subsidiary struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(120);not null"`

	CEOApprovalThreshold int64  `gorm:"type:bigint;not null;default:100000000"`
	FiscalYearStartMonth int    `gorm:"not null;default:7"`
	ProrationMode        string `gorm:"type:varchar(20);not null;default:'calendar_days'"`
	RoundingMode         string `gorm:"type:varchar(10);not null;default:'round'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FiscalYearOf labels the fiscal year containing (year, month) by its start
// year. With a July start, 2026-03 belongs to fiscal year 2025.
func (s Subsidiary) FiscalYearOf(year, month int) int {
	if month < s.FiscalYearStartMonth {
		return year - 1
	}
	return year
}

// RemainingFiscalMonths counts months left in the fiscal year including the
// current one.
func (s Subsidiary) RemainingFiscalMonths(month int) int {
	elapsed := month - s.FiscalYearStartMonth
	if elapsed < 0 {
		elapsed += 12
	}
	return 12 - elapsed
}
