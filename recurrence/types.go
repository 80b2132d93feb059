package recurrence

import (
	"fmt"
	"time"

	"github.com/cyp0633/librecur/internal/caltime"
)

// Unit is the calendar unit a series steps by
type Unit = caltime.Unit

const (
	Day   = caltime.Day
	Week  = caltime.Week
	Month = caltime.Month
	Year  = caltime.Year
)

// Occurrence represents a single concrete interval of a series
type Occurrence struct {
	Start time.Time // Start time of this occurrence
	End   time.Time // End time of this occurrence, never before Start
}

// Duration returns End - Start.
func (o Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// Contains reports whether t lies in the closed interval [Start, End].
func (o Occurrence) Contains(t time.Time) bool {
	return !t.Before(o.Start) && !t.After(o.End)
}

func (o Occurrence) String() string {
	return fmt.Sprintf("[%s, %s]", o.Start.Format(time.RFC3339Nano), o.End.Format(time.RFC3339Nano))
}

// Ends is the termination policy of a series. It is a closed union: the only
// implementations are Never, AfterCount and OnDate.
type Ends interface {
	isEnds()
	fmt.Stringer
}

// Never means the series repeats without bound.
type Never struct{}

// AfterCount limits the series to N occurrences, indices 0 through N-1.
type AfterCount struct {
	N int
}

// OnDate stops the series at At: occurrences starting at or after At are excluded.
type OnDate struct {
	At time.Time
}

func (Never) isEnds()      {}
func (AfterCount) isEnds() {}
func (OnDate) isEnds()     {}

func (Never) String() string        { return "never" }
func (e AfterCount) String() string { return fmt.Sprintf("after %d occurrences", e.N) }
func (e OnDate) String() string     { return "on " + e.At.Format(time.RFC3339) }
