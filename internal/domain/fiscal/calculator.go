// Package fiscal holds the single shared implementation of the
// double-scissor cost calculation. Every surface that shows money for a
// shift (dashboards, reports, exports) goes through Calculate so the
// figures never drift apart.
package fiscal

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
)

// Result is the payable outcome for one shift.
type Result struct {
	Cost    decimal.Decimal
	Minutes int
}

// CostString renders the cost with exactly two decimal places.
func (r Result) CostString() string {
	return r.Cost.StringFixed(2)
}

var zero = Result{Cost: decimal.Zero}

// Calculate computes payable minutes and cost for one shift.
//
// The effective span is clamped both ways against the schedule: arriving
// early or leaving late earns nothing, arriving late or leaving early is
// penalized. Missing real timestamps fall back to the scheduled instants,
// so a forced/override completion pays the full scheduled duration.
//
// Malformed records degrade to a zero result instead of erroring; this
// feeds financial displays where a crash is worse than a zero.
func Calculate(s shift.Shift) Result {
	schedStart, schedEnd, err := s.ScheduledSpan()
	if err != nil {
		return zero
	}

	realStart := schedStart
	if s.RealStartTime != nil {
		realStart = *s.RealStartTime
	}
	realEnd := schedEnd
	if s.RealEndTime != nil {
		realEnd = *s.RealEndTime
	}

	effStart := laterOf(realStart, schedStart)
	effEnd := earlierOf(realEnd, schedEnd)

	// Pathological data, e.g. a real start recorded after the scheduled
	// end. Never negative, never an error.
	if effStart.After(effEnd) {
		return zero
	}

	duration := effEnd.Sub(effStart)

	if s.HasBreak && s.BreakStartTime != nil && s.BreakEndTime != nil {
		if bs, be, err := s.BreakSpan(); err == nil {
			breakDur := be.Sub(bs)
			// A break that swallows the whole worked span, or a
			// non-positive one, is ignored rather than zeroing the pay.
			if breakDur > 0 && breakDur < duration {
				duration -= breakDur
			}
		}
	}

	// Truncate to whole minutes, never round up.
	minutes := int(duration / time.Minute)

	rate := s.PayoutRate
	var cost decimal.Decimal
	switch s.RateType {
	case shift.RateMinute:
		cost = rate.Mul(decimal.NewFromInt(int64(minutes)))
	case shift.RateDaily:
		cost = rate
	default: // hourly
		cost = rate.Mul(decimal.NewFromInt(int64(minutes))).Div(decimal.NewFromInt(60))
	}

	if cost.IsNegative() {
		cost = decimal.Zero
	}

	return Result{Cost: cost.Round(2), Minutes: minutes}
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
