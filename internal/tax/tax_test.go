package tax_test

import (
	"math"
	"testing"

	"github.com/dawingroup/dawinos-sub007/internal/shared/money"
	"github.com/dawingroup/dawinos-sub007/internal/tax"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePAYE_BandBoundaries(t *testing.T) {
	cfg := tax.DefaultConfig()

	tests := []struct {
		name          string
		taxableIncome int64
		wantTotal     int64
	}{
		{"below threshold", 200_000, 0},
		{"exactly at threshold", 235_000, 0},
		{"top of 10 percent band", 335_000, 10_000},
		{"top of 20 percent band", 410_000, 25_000},
		{"inside 30 percent band", 1_000_000, 202_000},
		{"zero income", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cfg.CalculatePAYE(tt.taxableIncome)
			assert.Equal(t, tt.wantTotal, got.TotalTax)
			assert.Equal(t, got.TotalTax, got.NetPAYE)

			var sum int64
			for _, band := range got.Bands {
				sum += band.Tax
			}
			assert.Equal(t, got.TotalTax, sum, "band detail must add up to total")
		})
	}
}

func TestCalculatePAYE_NegativeIncomeClampsToZero(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculatePAYE(-500_000)

	assert.Equal(t, int64(0), got.TaxableIncome)
	assert.Equal(t, int64(0), got.TotalTax)
	assert.Equal(t, float64(0), got.EffectiveRate)
}

func TestCalculatePAYE_EffectiveRate(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculatePAYE(1_000_000)

	assert.InDelta(t, 0.202, got.EffectiveRate, 0.0001)
}

func TestCalculatePAYE_TopBand(t *testing.T) {
	cfg := tax.DefaultConfig()

	// 12,000,000: 25,000 + 30% x 9,590,000 + 40% x 2,000,000
	got := cfg.CalculatePAYE(12_000_000)

	assert.Equal(t, int64(25_000+2_877_000+800_000), got.TotalTax)
}

func TestCalculateNSSF_StandardContribution(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{Age: 30})

	assert.False(t, got.Exempt)
	assert.False(t, got.CappedAtMaximum)
	assert.Equal(t, int64(1_000_000), got.ContributionBase)
	assert.Equal(t, int64(50_000), got.EmployeeContribution)
	assert.Equal(t, int64(100_000), got.EmployerContribution)
}

func TestCalculateNSSF_CappedAtMaximum(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculateNSSF(3_000_000, tax.NSSFOptions{Age: 40})

	assert.True(t, got.CappedAtMaximum)
	assert.Equal(t, int64(1_800_000), got.ContributionBase)
	assert.Equal(t, int64(90_000), got.EmployeeContribution)
	assert.Equal(t, int64(180_000), got.EmployerContribution)
}

func TestCalculateNSSF_ExemptionPaths(t *testing.T) {
	cfg := tax.DefaultConfig()

	t.Run("explicit reason", func(t *testing.T) {
		got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{ExemptionReason: "diplomatic staff", Age: 30})
		assert.True(t, got.Exempt)
		assert.Equal(t, tax.NSSFExemptionExplicit, got.ExemptionType)
		assert.Equal(t, int64(0), got.EmployeeContribution)
		assert.Equal(t, int64(0), got.EmployerContribution)
	})

	t.Run("over age limit", func(t *testing.T) {
		got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{Age: 56})
		assert.True(t, got.Exempt)
		assert.Equal(t, tax.NSSFExemptionAge, got.ExemptionType)
	})

	t.Run("exactly at age limit still contributes", func(t *testing.T) {
		got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{Age: 55})
		assert.False(t, got.Exempt)
		assert.Equal(t, int64(50_000), got.EmployeeContribution)
	})

	t.Run("exempt employment category", func(t *testing.T) {
		got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{Age: 30, EmploymentCategory: "casual"})
		assert.True(t, got.Exempt)
		assert.Equal(t, tax.NSSFExemptionCategory, got.ExemptionType)
	})

	t.Run("zero age falls back to default", func(t *testing.T) {
		got := cfg.CalculateNSSF(1_000_000, tax.NSSFOptions{})
		assert.False(t, got.Exempt)
	})
}

func TestCalculateLST_ExemptBand(t *testing.T) {
	cfg := tax.DefaultConfig()

	// 195,000 monthly over a full year projects to exactly 2,340,000.
	got := cfg.CalculateLST(195_000, 0, 0, 12)

	assert.Equal(t, int64(2_340_000), got.ProjectedAnnualIncome)
	assert.Equal(t, int64(0), got.AnnualTax)
	assert.Equal(t, int64(0), got.MonthlyAmount)
}

func TestCalculateLST_MidYearSplit(t *testing.T) {
	cfg := tax.DefaultConfig()

	// 4,020,000 projected annual sits in the 10,000 band; six months remain.
	got := cfg.CalculateLST(335_000, 2_010_000, 0, 6)

	assert.Equal(t, int64(4_020_000), got.ProjectedAnnualIncome)
	assert.Equal(t, int64(10_000), got.AnnualTax)
	assert.Equal(t, int64(10_000), got.RemainingTax)
	assert.Equal(t, cfg.Rounding.Apply(10_000.0/6.0), got.MonthlyAmount)
}

func TestCalculateLST_YearEndTrueUp(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculateLST(335_000, 4_020_000, 4_000, 0)

	assert.Equal(t, int64(6_000), got.RemainingTax)
	assert.Equal(t, int64(6_000), got.MonthlyAmount, "entire remainder charged when no months remain")
}

func TestCalculateLST_AlreadyFullyPaid(t *testing.T) {
	cfg := tax.DefaultConfig()

	got := cfg.CalculateLST(335_000, 2_010_000, 10_000, 6)

	assert.Equal(t, int64(0), got.RemainingTax)
	assert.Equal(t, int64(0), got.MonthlyAmount)
}

func TestRounding_Policies(t *testing.T) {
	assert.Equal(t, int64(1667), money.RoundNearest.Apply(10_000.0/6.0))
	assert.Equal(t, int64(1666), money.RoundFloor.Apply(10_000.0/6.0))
	assert.Equal(t, int64(1667), money.RoundCeil.Apply(10_000.0/6.0))
	assert.Equal(t, int64(0), money.RoundNearest.Apply(math.NaN()))
	assert.Equal(t, int64(0), money.RoundNearest.Apply(math.Inf(1)))
}
