package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysCount(t *testing.T) {
	assert.Equal(t, 1, DaysCount(day(2024, 3, 5), day(2024, 3, 5)))
	assert.Equal(t, 2, DaysCount(day(2024, 3, 5), day(2024, 3, 6)))
	assert.Equal(t, 10, DaysCount(day(2024, 3, 1), day(2024, 3, 10)))
	assert.Equal(t, 5, DaysCount(day(2024, 2, 27), day(2024, 3, 2)), "leap february")
	assert.Equal(t, 3, DaysCount(day(2023, 12, 30), day(2024, 1, 1)))
	assert.Equal(t, 146098, DaysCount(day(2000, 1, 1), day(2400, 1, 1)), "spans beyond time.Duration range")
}

func TestDeduction(t *testing.T) {
	tests := []struct {
		name   string
		days   int
		salary string
		want   string
	}{
		{"one day", 1, "3000", "0"},
		{"two days", 2, "3000", "0"},
		{"three days", 3, "3000", "100"},
		{"ten days", 10, "6000", "1600"},
		{"rounded to cents", 3, "1000", "33.33"},
		{"zero salary", 7, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduction(tt.days, decimal.RequireFromString(tt.salary))
			want := decimal.RequireFromString(tt.want)
			assert.True(t, want.Equal(got), "want %s, got %s", want, got)
		})
	}
}

func TestCalculate(t *testing.T) {
	days, deducted := Calculate(day(2024, 3, 1), day(2024, 3, 10), decimal.NewFromInt(6000))
	assert.Equal(t, 10, days)
	assert.Equal(t, "1600", deducted.String())
}
