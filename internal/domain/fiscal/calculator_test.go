package fiscal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

func local(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.Local)
	return &t
}

func strPtr(s string) *string { return &s }

func baseShift() shift.Shift {
	return shift.Shift{
		ID:        "s1",
		Date:      "2024-03-10",
		StartTime: "18:00",
		EndTime:   "22:00",
		PayoutRate: decimal.NewFromInt(10),
		RateType:   shift.RateHourly,
		Status:     shift.StatusCompleted,
	}
}

func TestCalculate_DoubleScissorClampsBothWays(t *testing.T) {
	s := baseShift()
	s.RealStartTime = local(2024, 3, 10, 17, 30) // early arrival earns nothing
	s.RealEndTime = local(2024, 3, 10, 22, 30)   // late departure earns nothing

	got := Calculate(s)
	assert.Equal(t, 240, got.Minutes)
	assert.Equal(t, "40.00", got.CostString())
}

func TestCalculate_LateArrivalAndEarlyLeavePenalized(t *testing.T) {
	s := baseShift()
	s.RealStartTime = local(2024, 3, 10, 18, 30)
	s.RealEndTime = local(2024, 3, 10, 21, 30)

	got := Calculate(s)
	assert.Equal(t, 180, got.Minutes)
	assert.Equal(t, "30.00", got.CostString())
}

func TestCalculate_NoActualsPaysFullSchedule(t *testing.T) {
	// Override completions carry no real timestamps and pay the full
	// scheduled duration.
	s := baseShift()
	s.AdminOverride = true

	got := Calculate(s)
	assert.Equal(t, 240, got.Minutes)
	assert.Equal(t, "40.00", got.CostString())
}

func TestCalculate_BreakSubtracted(t *testing.T) {
	s := baseShift()
	s.HasBreak = true
	s.BreakStartTime = strPtr("19:30")
	s.BreakEndTime = strPtr("20:00")

	got := Calculate(s)
	assert.Equal(t, 210, got.Minutes)
	assert.Equal(t, "35.00", got.CostString())
}

func TestCalculate_BreakCoveringWholeShiftIgnored(t *testing.T) {
	s := baseShift()
	s.HasBreak = true
	s.BreakStartTime = strPtr("18:00")
	s.BreakEndTime = strPtr("22:00")

	got := Calculate(s)
	assert.Equal(t, 240, got.Minutes)
	assert.Equal(t, "40.00", got.CostString())
}

func TestCalculate_InvalidBreakIgnored(t *testing.T) {
	s := baseShift()
	s.HasBreak = true
	s.BreakStartTime = strPtr("17:00") // before shift start
	s.BreakEndTime = strPtr("17:30")

	got := Calculate(s)
	assert.Equal(t, 240, got.Minutes)
}

func TestCalculate_RateTypes(t *testing.T) {
	cases := []struct {
		name     string
		rate     decimal.Decimal
		rateType shift.RateType
		wantCost string
	}{
		{"hourly", decimal.NewFromInt(10), shift.RateHourly, "15.00"},
		{"minute", decimal.RequireFromString("0.15"), shift.RateMinute, "13.50"},
		{"daily", decimal.NewFromInt(200), shift.RateDaily, "200.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := baseShift()
			s.StartTime = "18:00"
			s.EndTime = "19:30" // 90 minutes
			s.PayoutRate = tc.rate
			s.RateType = tc.rateType

			got := Calculate(s)
			assert.Equal(t, 90, got.Minutes)
			assert.Equal(t, tc.wantCost, got.CostString())
		})
	}
}

func TestCalculate_PathologicalOrderingReturnsZero(t *testing.T) {
	s := baseShift()
	s.RealStartTime = local(2024, 3, 10, 23, 0) // after scheduled end

	got := Calculate(s)
	assert.Equal(t, 0, got.Minutes)
	assert.Equal(t, "0.00", got.CostString())
}

func TestCalculate_MalformedTimesReturnZero(t *testing.T) {
	s := baseShift()
	s.StartTime = ""

	got := Calculate(s)
	assert.Equal(t, 0, got.Minutes)
	assert.Equal(t, "0.00", got.CostString())
}

func TestCalculate_OvernightShift(t *testing.T) {
	s := baseShift()
	s.Date = "2024-03-10"
	s.StartTime = "20:00"
	s.EndTime = "02:00"
	s.PayoutRate = decimal.NewFromInt(12)
	s.RealStartTime = local(2024, 3, 10, 19, 50)
	s.RealEndTime = local(2024, 3, 11, 2, 0)

	got := Calculate(s)
	assert.Equal(t, 360, got.Minutes)
	assert.Equal(t, "72.00", got.CostString())
}

func TestCalculate_TruncatesPartialMinutes(t *testing.T) {
	s := baseShift()
	realEnd := time.Date(2024, 3, 10, 21, 59, 45, 0, time.Local)
	s.RealEndTime = &realEnd

	got := Calculate(s)
	assert.Equal(t, 239, got.Minutes)
}
