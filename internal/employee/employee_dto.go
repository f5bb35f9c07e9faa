package employee

type EmployeeResponse struct {
	ID                 string  `json:"id"`
	CompanyID          string  `json:"company_id"`
	EmployeeNumber     string  `json:"employee_number"`
	FullName           string  `json:"full_name"`
	Department         string  `json:"department"`
	EmploymentStatus   string  `json:"employment_status"`
	EmploymentCategory string  `json:"employment_category"`
	JoinDate           string  `json:"join_date"`
	ExitDate           *string `json:"exit_date,omitempty"`
	PaymentMethod      string  `json:"payment_method"`
	BankName           *string `json:"bank_name,omitempty"`
	PaymentFrequency   string  `json:"payment_frequency"`
}

type GetEmployeesFilterRequest struct {
	Department string `form:"department"`
	Status     string `form:"status"`
}
