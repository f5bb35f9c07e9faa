package tax

const (
	NSSFExemptionNone     = ""
	NSSFExemptionExplicit = "explicit"
	NSSFExemptionAge      = "age"
	NSSFExemptionCategory = "employment_category"
)

type NSSFOptions struct {
	// ExemptionReason is a free-form justification captured on the employee
	// record; any non-empty value short-circuits the contribution.
	ExemptionReason    string
	Age                int
	EmploymentCategory string
}

type NSSFBreakdown struct {
	ApplicableGross      int64  `json:"applicable_gross"`
	ContributionBase     int64  `json:"contribution_base"`
	EmployeeContribution int64  `json:"employee_contribution"`
	EmployerContribution int64  `json:"employer_contribution"`
	CappedAtMaximum      bool   `json:"capped_at_maximum"`
	Exempt               bool   `json:"exempt"`
	ExemptionType        string `json:"exemption_type,omitempty"`
	ExemptionReason      string `json:"exemption_reason,omitempty"`
}

// CalculateNSSF applies the employee and employer contribution rates against
// the applicable gross, capped at the statutory monthly maximum. Each of the
// three exemption paths zeroes the contribution and records why.
func (c Config) CalculateNSSF(applicableGross int64, opts NSSFOptions) NSSFBreakdown {
	if applicableGross < 0 {
		applicableGross = 0
	}

	breakdown := NSSFBreakdown{ApplicableGross: applicableGross}

	if opts.ExemptionReason != "" {
		breakdown.Exempt = true
		breakdown.ExemptionType = NSSFExemptionExplicit
		breakdown.ExemptionReason = opts.ExemptionReason
		return breakdown
	}

	age := opts.Age
	if age <= 0 {
		age = c.NSSF.DefaultAge
	}
	if age > c.NSSF.ExemptionAgeAbove {
		breakdown.Exempt = true
		breakdown.ExemptionType = NSSFExemptionAge
		breakdown.ExemptionReason = "employee is above the contribution age limit"
		return breakdown
	}

	for _, category := range c.NSSF.ExemptCategories {
		if opts.EmploymentCategory == category {
			breakdown.Exempt = true
			breakdown.ExemptionType = NSSFExemptionCategory
			breakdown.ExemptionReason = "employment category is exempt: " + category
			return breakdown
		}
	}

	base := applicableGross
	if base > c.NSSF.MonthlyCap {
		base = c.NSSF.MonthlyCap
		breakdown.CappedAtMaximum = true
	}

	breakdown.ContributionBase = base
	breakdown.EmployeeContribution = c.Rounding.Apply(float64(base) * c.NSSF.EmployeeRate)
	breakdown.EmployerContribution = c.Rounding.Apply(float64(base) * c.NSSF.EmployerRate)

	return breakdown
}
