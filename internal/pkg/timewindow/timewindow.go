// Package timewindow is the single authority for projecting a shift's
// calendar date plus HH:MM times onto absolute instants, including the
// overnight case where the end time is earlier than the start time.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

var ErrBreakOutsideShift = errors.New("break interval falls outside the shift span")

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Combine assembles a local-time instant from a YYYY-MM-DD date and an
// HH:MM time of day.
func Combine(date string, clock string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	c, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, time.Local), nil
}

// ResolveShiftSpan computes the scheduled start and end instants of a
// shift. An end instant earlier than the start means the shift crosses
// midnight, so the end is advanced one calendar day.
func ResolveShiftSpan(date, startTime, endTime string) (time.Time, time.Time, error) {
	start, err := Combine(date, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := Combine(date, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// ResolveBreakSpan places a break's HH:MM times on the correct calendar
// day relative to an already-resolved shift span, then checks containment.
//
// Placement rules, applied as an exclusive chain:
//  1. a raw break start earlier than the shift start belongs to the next
//     calendar day (overnight shift, early-morning break);
//  2. a break end still earlier than the break start means the break
//     itself crosses midnight;
//  3. otherwise, for a shift spanning two days whose start is after noon,
//     a pre-noon break belongs to the second day.
//
// Rule 3 is the reverse-engineered disambiguation heuristic for which
// "day" a break belongs to; it is kept here so every caller shares it.
func ResolveBreakSpan(shiftStart, shiftEnd time.Time, breakStart, breakEnd, date string) (time.Time, time.Time, error) {
	bs, err := Combine(date, breakStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	be, err := Combine(date, breakEnd)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	shifted := false
	if bs.Before(shiftStart) {
		bs = bs.AddDate(0, 0, 1)
		be = be.AddDate(0, 0, 1)
		shifted = true
	}
	if be.Before(bs) {
		be = be.AddDate(0, 0, 1)
	}
	if !shifted && spansTwoDays(shiftStart, shiftEnd) && bs.Hour() < 12 && shiftStart.Hour() >= 12 {
		bs = bs.AddDate(0, 0, 1)
		be = be.AddDate(0, 0, 1)
	}

	if bs.Before(shiftStart) || be.After(shiftEnd) {
		return time.Time{}, time.Time{}, ErrBreakOutsideShift
	}
	return bs, be, nil
}

func spansTwoDays(start, end time.Time) bool {
	return start.YearDay() != end.YearDay() || start.Year() != end.Year()
}
