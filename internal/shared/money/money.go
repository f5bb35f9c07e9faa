package money

import "math"

// Amounts are stored as whole UGX (no fractional cents), mirroring the
// bigint columns used across the payroll tables.

type Rounding string

const (
	RoundNearest Rounding = "round"
	RoundFloor   Rounding = "floor"
	RoundCeil    Rounding = "ceil"
)

// Apply converts an intermediate float amount to a whole currency unit using
// the configured policy. Non-finite inputs collapse to 0 so a malformed rate
// can never leak NaN into a stored amount.
func (r Rounding) Apply(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	switch r {
	case RoundFloor:
		return int64(math.Floor(v))
	case RoundCeil:
		return int64(math.Ceil(v))
	default:
		return int64(math.Round(v))
	}
}

// Valid reports whether the policy is one of the supported modes.
func (r Rounding) Valid() bool {
	switch r {
	case RoundNearest, RoundFloor, RoundCeil:
		return true
	}
	return false
}
