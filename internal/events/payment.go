package events

import "time"

const (
	PaymentRequestedTopic = "payroll.payment.requested.v1"
	PaymentResultTopic    = "payroll.payment.result.v1"
)

type PaymentRequestedEvent struct {
	EventType      string    `json:"event_type"`
	PaymentBatchID string    `json:"payment_batch_id"`
	PayrollBatchID string    `json:"payroll_batch_id"`
	CompanyID      string    `json:"company_id"`
	Method         string    `json:"method"`
	BankName       string    `json:"bank_name,omitempty"`
	EmployeeCount  int       `json:"employee_count"`
	TotalAmount    int64     `json:"total_amount"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// PaymentResultEvent is published by the disbursement channel once a payment
// batch settles. Partial failure lists the employees whose lines bounced.
type PaymentResultEvent struct {
	EventType         string    `json:"event_type"`
	PaymentBatchID    string    `json:"payment_batch_id"`
	PayrollBatchID    string    `json:"payroll_batch_id"`
	CompanyID         string    `json:"company_id"`
	ProcessedCount    int       `json:"processed_count"`
	FailedEmployeeIDs []string  `json:"failed_employee_ids,omitempty"`
	ExternalReference string    `json:"external_reference,omitempty"`
	FailureReason     string    `json:"failure_reason,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}
