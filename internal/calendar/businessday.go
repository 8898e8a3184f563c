package calendar

import (
	"errors"
	"time"

	"lmedesk/internal/holidays"
)

// Sentinel errors for fixing-date validation. The messages are the exact
// sentences surfaced to the desk.
var (
	ErrNoFixingDate      = errors.New("Please provide a fixing date.")
	ErrInvalidFixingDate = errors.New("Fixing date is invalid.")
)

// Calculator computes business-day-aware settlement dates against a holiday
// set. All methods are pure functions of their inputs and the current holiday
// set; the set is never mutated.
type Calculator struct {
	holidays *holidays.Set
	adapter  Adapter
}

// NewCalculator builds a calculator over the given holiday set, formatting
// results with the given adapter.
func NewCalculator(set *holidays.Set, adapter Adapter) *Calculator {
	if adapter == nil {
		adapter = Default()
	}
	return &Calculator{holidays: set, adapter: adapter}
}

// Adapter returns the calendar adapter the calculator formats with.
func (c *Calculator) Adapter() Adapter { return c.adapter }

// IsBusinessDay reports whether t is neither a weekend day nor a listed
// holiday.
func (c *Calculator) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !c.holidays.Contains(t)
}

// SecondBusinessDayDate returns the second business day of the month following
// the pricing month (year, month0), with month0 zero-based. The first of that
// month counts itself when it qualifies. This is the standard ppt for an
// averaging leg priced over (year, month0).
func (c *Calculator) SecondBusinessDayDate(year, month0 int) time.Time {
	t := time.Date(year, time.Month(month0+2), 1, 0, 0, 0, 0, time.UTC)
	count := 0
	for {
		if c.IsBusinessDay(t) {
			count++
			if count == 2 {
				return t
			}
		}
		t = t.AddDate(0, 0, 1)
	}
}

// SecondBusinessDay is SecondBusinessDayDate formatted by the adapter.
func (c *Calculator) SecondBusinessDay(year, month0 int) string {
	return c.adapter.Format(c.SecondBusinessDayDate(year, month0))
}

// LastBusinessDayDate walks backward from the last calendar day of the pricing
// month (year, month0) to the latest business day in it. It anchors the latest
// permissible fixing date for a Fix leg paired against an AVG leg.
func (c *Calculator) LastBusinessDayDate(year, month0 int) time.Time {
	// Day zero of the following month is the last day of this one.
	t := time.Date(year, time.Month(month0+2), 0, 0, 0, 0, 0, time.UTC)
	for !c.IsBusinessDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// LastBusinessDay is LastBusinessDayDate formatted by the adapter.
func (c *Calculator) LastBusinessDay(year, month0 int) string {
	return c.adapter.Format(c.LastBusinessDayDate(year, month0))
}

// FixPPTFrom returns the second business day strictly after the fixing date:
// the universal two-business-day settlement lag for fixed-price legs.
func (c *Calculator) FixPPTFrom(fix time.Time) time.Time {
	t := fix
	count := 0
	for count < 2 {
		t = t.AddDate(0, 0, 1)
		if c.IsBusinessDay(t) {
			count++
		}
	}
	return t
}

// FixPPT parses an adapter-formatted fixing date and returns its settlement
// date. An empty date yields ErrNoFixingDate, an unparsable one
// ErrInvalidFixingDate.
func (c *Calculator) FixPPT(dateStr string) (string, error) {
	if dateStr == "" {
		return "", ErrNoFixingDate
	}
	fix, ok := c.adapter.Parse(dateStr)
	if !ok {
		return "", ErrInvalidFixingDate
	}
	return c.adapter.Format(c.FixPPTFrom(fix)), nil
}
