// Package caltime holds the calendar arithmetic the recurrence package relies on.
//
// Day and week steps keep the wall-clock time of the instant in its own
// location. Month and year steps clamp to the last valid day of the target
// month instead of overflowing into the next one, so Jan 31 + 1 month is the
// last day of February.
package caltime

import (
	"math"
	"time"
)

// Unit is a calendar step unit.
type Unit string

const (
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
	Year  Unit = "year"
)

// Valid reports whether u is one of the four supported units.
func (u Unit) Valid() bool {
	switch u {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// MaxYears bounds how far from year 0 Advance may be asked to go. It is well
// inside what time.Time represents and keeps the month count from overflowing.
const MaxYears = 1_000_000_000

// CanAdvance reports whether Advance(t, amount, unit) stays within MaxYears
// of year 0. The estimate rounds the distance up, so it may refuse a step that
// would land just under the bound.
func CanAdvance(t time.Time, amount int, unit Unit) bool {
	if amount < 0 {
		if amount == math.MinInt {
			return false
		}
		amount = -amount
	}

	var years int
	switch unit {
	case Day:
		years = amount/365 + 1
	case Week:
		years = amount/52 + 1
	case Month:
		years = amount/12 + 1
	case Year:
		years = amount
	default:
		return false
	}

	year := t.Year()
	if year < 0 {
		year = -year
	}
	return year <= MaxYears && years <= MaxYears-year
}

// Advance adds amount units to t.
func Advance(t time.Time, amount int, unit Unit) time.Time {
	switch unit {
	case Day:
		return t.AddDate(0, 0, amount)
	case Week:
		return t.AddDate(0, 0, 7*amount)
	case Month:
		return addMonths(t, amount)
	case Year:
		return addMonths(t, 12*amount)
	}
	// unreachable for validated units
	return t
}

// addMonths moves t by n calendar months, clamping the day of month.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	total := int(month) - 1 + n
	year += floorDiv(total, 12)
	month = time.Month(floorMod(total, 12) + 1)

	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// Compare returns -1, 0 or +1 when a is before, equal to or after b.
func Compare(a, b time.Time) int {
	return a.Compare(b)
}

// Now returns the current instant. Only callers need it; the recurrence core
// never reads the clock.
var Now = time.Now
