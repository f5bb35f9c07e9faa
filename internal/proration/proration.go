package proration

import "time"

type Reason string

const (
	ReasonNone        Reason = "none"
	ReasonJoining     Reason = "joining"
	ReasonExit        Reason = "exit"
	ReasonUnpaidLeave Reason = "unpaid_leave"
)

type DenominatorMode string

const (
	CalendarDays DenominatorMode = "calendar_days"
	WorkingDays  DenominatorMode = "working_days"
)

type Input struct {
	PeriodStart     time.Time
	PeriodEnd       time.Time
	JoinDate        time.Time
	ExitDate        *time.Time
	UnpaidLeaveDays int
	Mode            DenominatorMode
}

type Result struct {
	WorkedDays int
	TotalDays  int
	Factor     float64
	Reason     Reason
}

// Calculate derives the worked-day fraction for a partial period. The three
// reductions compose: a mid-period joiner who also takes unpaid leave is
// prorated by both. Reason records the most specific single cause for audit
// display even though the factor is one composed number.
func Calculate(in Input) Result {
	total := countDays(in.PeriodStart, in.PeriodEnd, in.Mode)
	worked := total
	reason := ReasonNone

	if in.JoinDate.After(in.PeriodStart) {
		worked -= countDays(in.PeriodStart, in.JoinDate.AddDate(0, 0, -1), in.Mode)
		reason = ReasonJoining
	}

	if in.ExitDate != nil && in.ExitDate.Before(in.PeriodEnd) {
		worked -= countDays(in.ExitDate.AddDate(0, 0, 1), in.PeriodEnd, in.Mode)
		reason = ReasonExit
	}

	if in.UnpaidLeaveDays > 0 {
		worked -= in.UnpaidLeaveDays
		reason = ReasonUnpaidLeave
	}

	if worked < 0 {
		worked = 0
	}

	factor := 0.0
	if total > 0 {
		factor = float64(worked) / float64(total)
	}
	if factor > 1 {
		factor = 1
	}

	return Result{
		WorkedDays: worked,
		TotalDays:  total,
		Factor:     factor,
		Reason:     reason,
	}
}

// countDays counts days in [from, to] inclusive, either all calendar days or
// Monday-to-Friday only.
func countDays(from, to time.Time, mode DenominatorMode) int {
	if to.Before(from) {
		return 0
	}

	if mode != WorkingDays {
		return int(to.Sub(from).Hours()/24) + 1
	}

	days := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}
