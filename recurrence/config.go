package recurrence

import (
	"time"
)

// DefaultSearchCeiling is the number of occurrence indices IsValid searches.
// It is a practical ceiling on series length, not a property of the domain:
// instants at or past the start of occurrence DefaultSearchCeiling are never
// reported as valid. One million steps is ~2700 years of daily repeats.
const DefaultSearchCeiling = 1_000_000

// Config holds the validated parameters of a series. Frequency and Unit are
// required; the zero values of Ends and SearchCeiling select the defaults.
type Config struct {
	Start time.Time // Start of occurrence 0
	End   time.Time // End of occurrence 0, not before Start

	Frequency int  // Repeat every Frequency units, at least 1
	Unit      Unit // Step unit
	Ends      Ends // Termination policy (default Never)

	// SearchCeiling bounds the index space searched by IsValid (default
	// DefaultSearchCeiling).
	SearchCeiling int
}

// WithEnds returns a copy of c with the termination policy replaced.
func (c Config) WithEnds(ends Ends) Config {
	c.Ends = ends
	return c
}

// WithCadence returns a copy of c repeating every frequency units.
func (c Config) WithCadence(frequency int, unit Unit) Config {
	c.Frequency = frequency
	c.Unit = unit
	return c
}

// WithSearchCeiling returns a copy of c with a different search ceiling.
func (c Config) WithSearchCeiling(ceiling int) Config {
	c.SearchCeiling = ceiling
	return c
}

// normalize fills in the optional defaults and checks structural invariants.
func (c Config) normalize() (Config, error) {
	if c.Ends == nil {
		c.Ends = Never{}
	}
	if c.SearchCeiling == 0 {
		c.SearchCeiling = DefaultSearchCeiling
	}

	if c.End.Before(c.Start) {
		return c, invalid("end", "end %s is before start %s", c.End.Format(time.RFC3339), c.Start.Format(time.RFC3339))
	}
	if c.Frequency <= 0 {
		return c, invalid("frequency", "must be positive, got %d", c.Frequency)
	}
	if !c.Unit.Valid() {
		return c, invalid("unit", "unknown unit %q", string(c.Unit))
	}
	if c.SearchCeiling < 0 {
		return c, invalid("search_ceiling", "must be positive, got %d", c.SearchCeiling)
	}

	switch e := c.Ends.(type) {
	case Never:
	case AfterCount:
		if e.N <= 0 {
			return c, invalid("ends", "occurrence count must be positive, got %d", e.N)
		}
		if e.N > c.SearchCeiling {
			return c, invalid("ends", "occurrence count %d exceeds search ceiling %d", e.N, c.SearchCeiling)
		}
	case OnDate:
		if e.At.Before(c.Start) {
			return c, invalid("ends", "end date %s is before start %s", e.At.Format(time.RFC3339), c.Start.Format(time.RFC3339))
		}
	default:
		return c, invalid("ends", "unknown termination policy %T", c.Ends)
	}

	return c, nil
}
