package tax

// PAYEBandDetail records the slice of income that fell inside one bracket.
type PAYEBandDetail struct {
	Lower         int64   `json:"lower"`
	Upper         int64   `json:"upper"`
	Rate          float64 `json:"rate"`
	TaxableAmount int64   `json:"taxable_amount"`
	Tax           int64   `json:"tax"`
}

type PAYEBreakdown struct {
	TaxableIncome int64            `json:"taxable_income"`
	Bands         []PAYEBandDetail `json:"bands"`
	TotalTax      int64            `json:"total_tax"`
	NetPAYE       int64            `json:"net_paye"`
	EffectiveRate float64          `json:"effective_rate"`
}

// CalculatePAYE walks the progressive brackets and taxes the income segment
// inside each one. Negative income clamps to 0; the result is never negative.
func (c Config) CalculatePAYE(taxableIncome int64) PAYEBreakdown {
	if taxableIncome < 0 {
		taxableIncome = 0
	}

	breakdown := PAYEBreakdown{
		TaxableIncome: taxableIncome,
		Bands:         make([]PAYEBandDetail, 0, len(c.PAYEBands)),
	}

	for _, band := range c.PAYEBands {
		detail := PAYEBandDetail{Lower: band.Lower, Upper: band.Upper, Rate: band.Rate}

		if taxableIncome > band.Lower {
			segment := taxableIncome - band.Lower
			if band.Upper >= 0 && taxableIncome > band.Upper {
				segment = band.Upper - band.Lower
			}
			detail.TaxableAmount = segment
			detail.Tax = c.Rounding.Apply(float64(segment) * band.Rate)
			if detail.Tax < 0 {
				detail.Tax = 0
			}
		}

		breakdown.Bands = append(breakdown.Bands, detail)
		breakdown.TotalTax += detail.Tax
	}

	// No statutory reliefs applied by default, so net PAYE equals gross PAYE.
	breakdown.NetPAYE = breakdown.TotalTax
	if taxableIncome > 0 {
		breakdown.EffectiveRate = float64(breakdown.TotalTax) / float64(taxableIncome)
	}

	return breakdown
}
