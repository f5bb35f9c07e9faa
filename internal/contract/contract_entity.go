package contract

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusTerminated = "terminated"
	StatusExpired    = "expired"
)

// AllowanceType is a closed set; the tax treatment of each type is fixed in
// the treatment table below rather than carried as free-form flags.
type AllowanceType string

const (
	AllowanceHousing    AllowanceType = "housing"
	AllowanceTransport  AllowanceType = "transport"
	AllowanceMedical    AllowanceType = "medical"
	AllowanceMeal       AllowanceType = "meal"
	AllowanceAirtime    AllowanceType = "airtime"
	AllowanceResponsib  AllowanceType = "responsibility"
	AllowanceHardship   AllowanceType = "hardship"
	AllowanceOtherTaxed AllowanceType = "other"
)

type AllowanceTreatment struct {
	Taxable        bool
	NSSFApplicable bool
}

var allowanceTreatments = map[AllowanceType]AllowanceTreatment{
	AllowanceHousing:    {Taxable: true, NSSFApplicable: true},
	AllowanceTransport:  {Taxable: true, NSSFApplicable: true},
	AllowanceMedical:    {Taxable: false, NSSFApplicable: false},
	AllowanceMeal:       {Taxable: true, NSSFApplicable: false},
	AllowanceAirtime:    {Taxable: false, NSSFApplicable: false},
	AllowanceResponsib:  {Taxable: true, NSSFApplicable: true},
	AllowanceHardship:   {Taxable: true, NSSFApplicable: true},
	AllowanceOtherTaxed: {Taxable: true, NSSFApplicable: false},
}

// TreatmentFor resolves the tax treatment for an allowance type. Unknown
// types are treated as fully taxable so a data error can never under-tax.
func TreatmentFor(t AllowanceType) AllowanceTreatment {
	if treatment, ok := allowanceTreatments[t]; ok {
		return treatment
	}
	return AllowanceTreatment{Taxable: true, NSSFApplicable: true}
}

type AllowanceItem struct {
	Type   AllowanceType `json:"type"`
	Name   string        `json:"name"`
	Amount int64         `json:"amount"`
}

type DeductionItem struct {
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
	Statutory bool   `json:"statutory"`
}

type AllowanceList []AllowanceItem

func (l AllowanceList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *AllowanceList) Scan(value any) error {
	return scanJSON(value, l)
}

type DeductionList []DeductionItem

func (l DeductionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *DeductionList) Scan(value any) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest any) error {
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

type Contract struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_contracts_employee_effective"`

	BaseSalary int64         `gorm:"type:bigint;not null;default:0"`
	Allowances AllowanceList `gorm:"type:jsonb;not null;default:'[]'"`
	Deductions DeductionList `gorm:"type:jsonb;not null;default:'[]'"`

	Status        string     `gorm:"type:varchar(20);not null;default:'active'"`
	EffectiveDate time.Time  `gorm:"type:date;not null;index:idx_contracts_employee_effective"`
	EndDate       *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
