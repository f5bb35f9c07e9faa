package batch

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft             = "draft"
	StatusCalculating       = "calculating"
	StatusCalculated        = "calculated"
	StatusHRReview          = "hr_review"
	StatusHRApproved        = "hr_approved"
	StatusFinanceReview     = "finance_review"
	StatusFinanceApproved   = "finance_approved"
	StatusCEOReview         = "ceo_review"
	StatusApproved          = "approved"
	StatusProcessingPayment = "processing_payment"
	StatusPaid              = "paid"
	StatusCancelled         = "cancelled"
	StatusReversed          = "reversed"
)

// Batch-level payment progress, derived from the disbursement sub-batches:
// complete only when every sub-batch completed, partial once anything failed.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusComplete = "complete"
)

const (
	ApprovalLevelHR      = "hr"
	ApprovalLevelFinance = "finance"
	ApprovalLevelCEO     = "ceo"
)

const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
	ApprovalActionReturn  = "return"
)

// StatusChange is one append-only audit entry; past entries are never edited.
type StatusChange struct {
	From    string    `json:"from"`
	To      string    `json:"to"`
	ActorID string    `json:"actor_id"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

type StatusHistory []StatusChange

func (h StatusHistory) Value() (driver.Value, error) { return marshalJSONB(h) }
func (h *StatusHistory) Scan(value any) error        { return scanJSONB(value, h) }

type ApprovalRecord struct {
	Level   string    `json:"level"`
	Action  string    `json:"action"`
	ActorID string    `json:"actor_id"`
	Comment string    `json:"comment,omitempty"`
	At      time.Time `json:"at"`
}

type ApprovalRecords []ApprovalRecord

func (r ApprovalRecords) Value() (driver.Value, error) { return marshalJSONB(r) }
func (r *ApprovalRecords) Scan(value any) error        { return scanJSONB(value, r) }

// CalculationError captures why one employee's calculation failed without
// failing the batch run.
type CalculationError struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeNumber string `json:"employee_number,omitempty"`
	Code           string `json:"code"`
	Message        string `json:"message"`
}

type CalculationErrors []CalculationError

func (e CalculationErrors) Value() (driver.Value, error) { return marshalJSONB(e) }
func (e *CalculationErrors) Scan(value any) error        { return scanJSONB(value, e) }

type StringList []string

func (l StringList) Value() (driver.Value, error) { return marshalJSONB(l) }
func (l *StringList) Scan(value any) error        { return scanJSONB(value, l) }

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

type PayrollBatch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_batches_company_period,unique"`
	BatchNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`

	Year  int `gorm:"not null;index:idx_batches_company_period,unique"`
	Month int `gorm:"not null;index:idx_batches_company_period,unique"`

	// Roster selection captured at creation so recalculation runs resolve the
	// same population. An explicit id list takes precedence over the filters.
	RosterDepartment  *string    `gorm:"type:varchar(80)"`
	RosterStatuses    StringList `gorm:"type:jsonb;not null;default:'[]'"`
	RosterEmployeeIDs StringList `gorm:"type:jsonb;not null;default:'[]'"`

	Status            string            `gorm:"type:varchar(25);not null;default:'draft';index"`
	History           StatusHistory     `gorm:"type:jsonb;not null;default:'[]'"`
	Approvals         ApprovalRecords   `gorm:"type:jsonb;not null;default:'[]'"`
	CalculationErrors CalculationErrors `gorm:"type:jsonb;not null;default:'[]'"`

	EmployeeCount   int `gorm:"not null;default:0"`
	CalculatedCount int `gorm:"not null;default:0"`
	ErrorCount      int `gorm:"not null;default:0"`

	TotalGrossPay     int64 `gorm:"type:bigint;not null;default:0"`
	TotalPAYE         int64 `gorm:"type:bigint;not null;default:0"`
	TotalNSSFEmployee int64 `gorm:"type:bigint;not null;default:0"`
	TotalNSSFEmployer int64 `gorm:"type:bigint;not null;default:0"`
	TotalLST          int64 `gorm:"type:bigint;not null;default:0"`
	TotalDeductions   int64 `gorm:"type:bigint;not null;default:0"`
	TotalNetPay       int64 `gorm:"type:bigint;not null;default:0"`

	CEOApprovalRequired bool `gorm:"not null;default:false"`

	PaymentStatus string `gorm:"type:varchar(10);not null;default:'pending'"`
	PaidAmount    int64  `gorm:"type:bigint;not null;default:0"`
	PendingAmount int64  `gorm:"type:bigint;not null;default:0"`

	Version   int       `gorm:"not null;default:1"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// resetAggregates clears the figures a calculation run rebuilds from scratch.
func (b *PayrollBatch) resetAggregates() {
	b.CalculationErrors = CalculationErrors{}
	b.EmployeeCount = 0
	b.CalculatedCount = 0
	b.ErrorCount = 0
	b.TotalGrossPay = 0
	b.TotalPAYE = 0
	b.TotalNSSFEmployee = 0
	b.TotalNSSFEmployer = 0
	b.TotalLST = 0
	b.TotalDeductions = 0
	b.TotalNetPay = 0
	b.CEOApprovalRequired = false
	b.PaymentStatus = PaymentStatusPending
	b.PaidAmount = 0
	b.PendingAmount = 0
}
