// Package services holds the billing-cycle arithmetic and the aggregations
// built on top of it.
//
// This file implements the Strategy Pattern for stepping a date by one billing
// period. Each period has its own stepper that knows how to move forward and
// backward, clamping to the last valid day of the target month.
package services

import (
	"fmt"
	"time"

	"subtracker/internal/core"
)

// CycleStepper is the strategy interface for moving a date by one period.
type CycleStepper interface {
	// Next returns the occurrence one period after d.
	Next(d core.Date) core.Date
	// Previous returns the occurrence one period before d.
	Previous(d core.Date) core.Date
}

// DailyStepper moves one calendar day.
type DailyStepper struct{}

func (DailyStepper) Next(d core.Date) core.Date     { return addDays(d, 1) }
func (DailyStepper) Previous(d core.Date) core.Date { return addDays(d, -1) }

// WeeklyStepper moves seven calendar days.
type WeeklyStepper struct{}

func (WeeklyStepper) Next(d core.Date) core.Date     { return addDays(d, 7) }
func (WeeklyStepper) Previous(d core.Date) core.Date { return addDays(d, -7) }

// MonthStepper moves a fixed number of calendar months. Monthly, quarterly and
// yearly cadences are all month steppers; a day that does not exist in the
// target month becomes that month's last day (Mar 31 -> Feb 29, Feb 29 -> Feb 28).
type MonthStepper struct {
	Months int
}

func (s MonthStepper) Next(d core.Date) core.Date     { return addMonthsClamped(d, s.Months) }
func (s MonthStepper) Previous(d core.Date) core.Date { return addMonthsClamped(d, -s.Months) }

// OneTimeStepper never moves: a one-time item has no other occurrence.
type OneTimeStepper struct{}

func (OneTimeStepper) Next(d core.Date) core.Date     { return d }
func (OneTimeStepper) Previous(d core.Date) core.Date { return d }

// cycleSteppers maps periods to their stepper.
var cycleSteppers = map[core.Period]CycleStepper{}

func init() {
	RegisterCycleStepper(core.OneTime, OneTimeStepper{})
	RegisterCycleStepper(core.Daily, DailyStepper{})
	RegisterCycleStepper(core.Weekly, WeeklyStepper{})
	RegisterCycleStepper(core.Monthly, MonthStepper{Months: 1})
	RegisterCycleStepper(core.Quarterly, MonthStepper{Months: 3})
	RegisterCycleStepper(core.Yearly, MonthStepper{Months: 12})
}

// GetCycleStepper returns the stepper for a period.
// Returns an error if the period is not supported.
func GetCycleStepper(p core.Period) (CycleStepper, error) {
	stepper, ok := cycleSteppers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrInvalidPeriod, p)
	}
	return stepper, nil
}

// RegisterCycleStepper installs a stepper for a period, replacing any existing one.
func RegisterCycleStepper(p core.Period, stepper CycleStepper) {
	cycleSteppers[p] = stepper
}

// PreviousOccurrence returns the billing date one period before next.
// Unknown periods leave the date unchanged.
func PreviousOccurrence(next core.Date, p core.Period) core.Date {
	stepper, err := GetCycleStepper(p)
	if err != nil {
		return next
	}
	return stepper.Previous(next)
}

// AddPeriod returns the billing date one period after d.
// Unknown periods leave the date unchanged.
func AddPeriod(d core.Date, p core.Period) core.Date {
	stepper, err := GetCycleStepper(p)
	if err != nil {
		return d
	}
	return stepper.Next(d)
}

// NextOccurrence advances anchor by whole periods until it falls after today.
// One-time items, unknown periods and zero dates return anchor.
func NextOccurrence(anchor core.Date, p core.Period, now time.Time) core.Date {
	if anchor.IsZero() || p == core.OneTime {
		return anchor
	}
	stepper, err := GetCycleStepper(p)
	if err != nil {
		return anchor
	}
	today := core.DateOf(now)
	next := anchor
	for !next.After(today.Time) {
		next = stepper.Next(next)
	}
	return next
}

// OccurrencesInRange lists every occurrence of the cadence starting at anchor
// that falls within [start, end]. Each step is taken from the previous
// occurrence, so a clamped day stays clamped (Jan 31, Feb 29, Mar 29).
func OccurrencesInRange(anchor core.Date, p core.Period, start, end core.Date) []core.Date {
	if anchor.IsZero() || end.Before(start.Time) {
		return nil
	}
	if p == core.OneTime {
		if !anchor.Before(start.Time) && !anchor.After(end.Time) {
			return []core.Date{anchor}
		}
		return nil
	}
	stepper, err := GetCycleStepper(p)
	if err != nil {
		return nil
	}

	current := anchor
	for current.Before(start.Time) {
		current = stepper.Next(current)
	}
	var out []core.Date
	for !current.After(end.Time) {
		out = append(out, current)
		current = stepper.Next(current)
	}
	return out
}

func addDays(d core.Date, days int) core.Date {
	return core.Date{Time: d.AddDate(0, 0, days)}
}

// addMonthsClamped shifts d by months without letting the day overflow into
// the following month.
func addMonthsClamped(d core.Date, months int) core.Date {
	y, m, day := d.Time.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := daysIn(first.Year(), first.Month())
	if day > lastDay {
		day = lastDay
	}
	return core.NewDate(first.Year(), int(first.Month()), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
