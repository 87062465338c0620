package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// FreeDays is how many days of a request are never deducted.
	FreeDays = 2
	// salaryDays converts a monthly salary into a daily rate.
	salaryDays = 30

	secondsPerDay = 24 * 60 * 60
)

// DaysCount is the inclusive number of calendar days from start to end.
func DaysCount(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1
}

// Deduction is zero up to FreeDays, otherwise (days - FreeDays) days of
// salary/30, rounded to cents.
func Deduction(days int, monthlySalary decimal.Decimal) decimal.Decimal {
	if days <= FreeDays {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days - FreeDays)).
		Mul(monthlySalary).
		Div(decimal.NewFromInt(salaryDays)).
		Round(2)
}

// Calculate returns the day count and deduction for a request, fixed at submission.
func Calculate(start, end time.Time, monthlySalary decimal.Decimal) (int, decimal.Decimal) {
	days := DaysCount(start, end)
	return days, Deduction(days, monthlySalary)
}
