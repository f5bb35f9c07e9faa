package tax

import "github.com/dawingroup/dawinos-sub007/internal/shared/money"

// PAYEBand is one progressive bracket. Upper < 0 means the band is unbounded.
type PAYEBand struct {
	Lower int64   `json:"lower"`
	Upper int64   `json:"upper"`
	Rate  float64 `json:"rate"`
}

// LSTBand maps a projected annual income range to a fixed annual levy.
// Bands are contiguous and non-overlapping; Upper < 0 means unbounded.
type LSTBand struct {
	Lower     int64 `json:"lower"`
	Upper     int64 `json:"upper"`
	AnnualTax int64 `json:"annual_tax"`
}

type NSSFConfig struct {
	EmployeeRate      float64
	EmployerRate      float64
	MonthlyCap        int64
	ExemptionAgeAbove int
	DefaultAge        int
	ExemptCategories  []string
}

type Config struct {
	PAYEBands []PAYEBand
	NSSF      NSSFConfig
	LSTBands  []LSTBand
	Rounding  money.Rounding
}

// DefaultConfig returns the statutory Ugandan tables. Monthly PAYE brackets
// and the LST schedule are expressed in whole UGX.
func DefaultConfig() Config {
	return Config{
		PAYEBands: []PAYEBand{
			{Lower: 0, Upper: 235_000, Rate: 0},
			{Lower: 235_000, Upper: 335_000, Rate: 0.10},
			{Lower: 335_000, Upper: 410_000, Rate: 0.20},
			{Lower: 410_000, Upper: 10_000_000, Rate: 0.30},
			{Lower: 10_000_000, Upper: -1, Rate: 0.40},
		},
		NSSF: NSSFConfig{
			EmployeeRate:      0.05,
			EmployerRate:      0.10,
			MonthlyCap:        1_800_000,
			ExemptionAgeAbove: 55,
			DefaultAge:        30,
			ExemptCategories:  []string{"expatriate_exempt", "casual"},
		},
		LSTBands: []LSTBand{
			{Lower: 0, Upper: 2_340_000, AnnualTax: 0},
			{Lower: 2_340_000, Upper: 3_240_000, AnnualTax: 5_000},
			{Lower: 3_240_000, Upper: 4_020_000, AnnualTax: 10_000},
			{Lower: 4_020_000, Upper: 4_920_000, AnnualTax: 20_000},
			{Lower: 4_920_000, Upper: 6_000_000, AnnualTax: 30_000},
			{Lower: 6_000_000, Upper: 7_200_000, AnnualTax: 40_000},
			{Lower: 7_200_000, Upper: 8_400_000, AnnualTax: 60_000},
			{Lower: 8_400_000, Upper: 9_600_000, AnnualTax: 70_000},
			{Lower: 9_600_000, Upper: 10_800_000, AnnualTax: 80_000},
			{Lower: 10_800_000, Upper: 12_000_000, AnnualTax: 90_000},
			{Lower: 12_000_000, Upper: -1, AnnualTax: 100_000},
		},
		Rounding: money.RoundNearest,
	}
}
