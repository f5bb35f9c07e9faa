package subsidiary

type SettingsResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	CEOApprovalThreshold int64  `json:"ceo_approval_threshold"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month"`
	ProrationMode        string `json:"proration_mode"`
	RoundingMode         string `json:"rounding_mode"`
}

type UpdateSettingsRequest struct {
	CEOApprovalThreshold int64  `json:"ceo_approval_threshold" binding:"required"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month" binding:"required"`
	ProrationMode        string `json:"proration_mode" binding:"required,oneof=calendar_days working_days"`
	RoundingMode         string `json:"rounding_mode" binding:"required,oneof=round floor ceil"`
}
