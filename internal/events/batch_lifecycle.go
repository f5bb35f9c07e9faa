package events

import "time"

const (
	BatchCalculatedTopic = "payroll.batch.calculated.v1"
	BatchApprovedTopic   = "payroll.batch.approved.v1"
	BatchPaidTopic       = "payroll.batch.paid.v1"
)

type BatchCalculatedEvent struct {
	EventType     string    `json:"event_type"`
	BatchID       string    `json:"batch_id"`
	BatchNumber   string    `json:"batch_number"`
	CompanyID     string    `json:"company_id"`
	Year          int       `json:"year"`
	Month         int       `json:"month"`
	EmployeeCount int       `json:"employee_count"`
	ErrorCount    int       `json:"error_count"`
	TotalNetPay   int64     `json:"total_net_pay"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type BatchApprovedEvent struct {
	EventType   string    `json:"event_type"`
	BatchID     string    `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	CompanyID   string    `json:"company_id"`
	ApprovedBy  string    `json:"approved_by"`
	TotalNetPay int64     `json:"total_net_pay"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type BatchPaidEvent struct {
	EventType   string    `json:"event_type"`
	BatchID     string    `json:"batch_id"`
	BatchNumber string    `json:"batch_number"`
	CompanyID   string    `json:"company_id"`
	TotalNetPay int64     `json:"total_net_pay"`
	OccurredAt  time.Time `json:"occurred_at"`
}
