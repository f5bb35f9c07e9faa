package batch

import "time"

type CreateBatchRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`

	// Either an explicit employee list or a department/status filter; the
	// explicit list wins when both are present.
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	Department  *string  `json:"department"`
	Statuses    []string `json:"statuses" binding:"omitempty,dive,oneof=active on_leave"`
}

type ApprovalRequest struct {
	Action  string `json:"action" binding:"required,oneof=approve reject return"`
	Comment string `json:"comment" binding:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ReverseRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type BatchResponse struct {
	ID          string `json:"id"`
	BatchNumber string `json:"batch_number"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Status      string `json:"status"`

	EmployeeCount   int `json:"employee_count"`
	CalculatedCount int `json:"calculated_count"`
	ErrorCount      int `json:"error_count"`

	TotalGrossPay     int64 `json:"total_gross_pay"`
	TotalPAYE         int64 `json:"total_paye"`
	TotalNSSFEmployee int64 `json:"total_nssf_employee"`
	TotalNSSFEmployer int64 `json:"total_nssf_employer"`
	TotalLST          int64 `json:"total_lst"`
	TotalDeductions   int64 `json:"total_deductions"`
	TotalNetPay       int64 `json:"total_net_pay"`

	CEOApprovalRequired bool `json:"ceo_approval_required"`

	PaymentStatus string `json:"payment_status"`
	PaidAmount    int64  `json:"paid_amount"`
	PendingAmount int64  `json:"pending_amount"`

	CalculationErrors []CalculationError `json:"calculation_errors,omitempty"`
	Approvals         []ApprovalRecord   `json:"approvals,omitempty"`
	History           []StatusChange     `json:"history,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func mapToResponse(b PayrollBatch) BatchResponse {
	return BatchResponse{
		ID:          b.ID.String(),
		BatchNumber: b.BatchNumber,
		Year:        b.Year,
		Month:       b.Month,
		Status:      b.Status,

		EmployeeCount:   b.EmployeeCount,
		CalculatedCount: b.CalculatedCount,
		ErrorCount:      b.ErrorCount,

		TotalGrossPay:     b.TotalGrossPay,
		TotalPAYE:         b.TotalPAYE,
		TotalNSSFEmployee: b.TotalNSSFEmployee,
		TotalNSSFEmployer: b.TotalNSSFEmployer,
		TotalLST:          b.TotalLST,
		TotalDeductions:   b.TotalDeductions,
		TotalNetPay:       b.TotalNetPay,

		CEOApprovalRequired: b.CEOApprovalRequired,

		PaymentStatus: b.PaymentStatus,
		PaidAmount:    b.PaidAmount,
		PendingAmount: b.PendingAmount,

		CalculationErrors: b.CalculationErrors,
		Approvals:         b.Approvals,
		History:           b.History,

		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func mapToListResponse(batches []PayrollBatch) []BatchResponse {
	responses := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		responses = append(responses, mapToResponse(b))
	}
	return responses
}
