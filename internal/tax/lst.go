package tax

type LSTBreakdown struct {
	ProjectedAnnualIncome int64 `json:"projected_annual_income"`
	BandLower             int64 `json:"band_lower"`
	BandUpper             int64 `json:"band_upper"`
	AnnualTax             int64 `json:"annual_tax"`
	YTDPaid               int64 `json:"ytd_paid"`
	RemainingTax          int64 `json:"remaining_tax"`
	MonthlyAmount         int64 `json:"monthly_amount"`
	RemainingMonths       int   `json:"remaining_months"`
}

// CalculateLST projects annual income from the fiscal-year-to-date gross plus
// the current monthly gross carried over the remaining months, picks the single
// band containing the projection, and spreads the still-unpaid annual levy over
// the remaining months. With no months left the whole remainder is charged now,
// which is the year-end true-up: mid-year salary changes re-project every month
// so the full annual liability is always collected by fiscal year end.
func (c Config) CalculateLST(monthlyGross, ytdGross, ytdLSTPaid int64, remainingMonths int) LSTBreakdown {
	if monthlyGross < 0 {
		monthlyGross = 0
	}
	if ytdGross < 0 {
		ytdGross = 0
	}
	if ytdLSTPaid < 0 {
		ytdLSTPaid = 0
	}
	if remainingMonths < 0 {
		remainingMonths = 0
	}

	projected := ytdGross + monthlyGross*int64(remainingMonths)

	breakdown := LSTBreakdown{
		ProjectedAnnualIncome: projected,
		YTDPaid:               ytdLSTPaid,
		RemainingMonths:       remainingMonths,
	}

	band, ok := c.lstBandFor(projected)
	if !ok {
		return breakdown
	}

	breakdown.BandLower = band.Lower
	breakdown.BandUpper = band.Upper
	breakdown.AnnualTax = band.AnnualTax

	remaining := band.AnnualTax - ytdLSTPaid
	if remaining < 0 {
		remaining = 0
	}
	breakdown.RemainingTax = remaining

	if remainingMonths > 0 {
		breakdown.MonthlyAmount = c.Rounding.Apply(float64(remaining) / float64(remainingMonths))
	} else {
		breakdown.MonthlyAmount = remaining
	}

	return breakdown
}

func (c Config) lstBandFor(projected int64) (LSTBand, bool) {
	for _, band := range c.LSTBands {
		if projected < band.Lower {
			continue
		}
		if band.Upper < 0 || projected <= band.Upper {
			return band, true
		}
	}
	return LSTBand{}, false
}
