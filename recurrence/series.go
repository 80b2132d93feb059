package recurrence

import (
	"math"
	"sort"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/librecur/internal/caltime"
)

// Series is a base interval repeated at a fixed calendar cadence.
//
// A Series is immutable after New returns, so it may be shared between
// goroutines without locking. Occurrences are computed on demand and never
// stored.
type Series struct {
	cfg      Config
	duration time.Duration
	expiry   mo.Option[time.Time]
	horizon  time.Time
}

// New validates cfg and builds a series from it. Any structural violation is
// reported as an *Error of type ErrInvalidConfiguration.
//
// Every start up to Horizon must be representable, so a cadence whose
// SearchCeiling-th step would leave caltime's year range is rejected.
func New(cfg Config) (*Series, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	if cfg.Frequency > math.MaxInt/cfg.SearchCeiling ||
		!caltime.CanAdvance(cfg.Start, cfg.SearchCeiling*cfg.Frequency, cfg.Unit) {
		return nil, invalid("frequency", "%d %s steps over %d occurrences leave the supported calendar range",
			cfg.Frequency, cfg.Unit, cfg.SearchCeiling)
	}

	s := &Series{
		cfg:      cfg,
		duration: cfg.End.Sub(cfg.Start),
		expiry:   mo.None[time.Time](),
	}
	s.horizon = s.startAt(cfg.SearchCeiling)

	switch e := cfg.Ends.(type) {
	case AfterCount:
		s.expiry = mo.Some(s.startAt(e.N))
	case OnDate:
		if caltime.Compare(e.At, s.horizon) > 0 {
			return nil, invalid("ends", "end date %s is past the search horizon %s",
				e.At.Format(time.RFC3339), s.horizon.Format(time.RFC3339))
		}
		s.expiry = mo.Some(e.At)
	}

	return s, nil
}

// startAt returns the start of occurrence i.
func (s *Series) startAt(i int) time.Time {
	return caltime.Advance(s.cfg.Start, i*s.cfg.Frequency, s.cfg.Unit)
}

// OccurrenceAt returns occurrence i. Negative indices are treated as 0.
//
// The end is derived from the start plus the base duration, so every
// occurrence has the same length even when a month step clamps the start.
func (s *Series) OccurrenceAt(i int) Occurrence {
	if i < 0 {
		i = 0
	}
	start := s.startAt(i)
	return Occurrence{Start: start, End: start.Add(s.duration)}
}

// IsExpired reports whether t is at or after the expiry instant. A series
// that never ends never expires.
func (s *Series) IsExpired(t time.Time) bool {
	expiry, ok := s.expiry.Get()
	return ok && caltime.Compare(t, expiry) >= 0
}

// nextReserve caps the slice capacity Next reserves up front when the series
// length is not known in advance.
const nextReserve = 64

// Next returns up to count occurrences from the start of the series. Fewer
// are returned only when the series expires first.
func (s *Series) Next(count int) []Occurrence {
	size := min(max(count, 0), nextReserve)
	if e, ok := s.cfg.Ends.(AfterCount); ok {
		size = min(max(count, 0), e.N)
	}

	items := make([]Occurrence, 0, size)
	for i := 0; i < count; i++ {
		occ := s.OccurrenceAt(i)
		if s.IsExpired(occ.Start) {
			break
		}
		items = append(items, occ)
	}
	return items
}

// IsValid reports whether t falls inside any non-expired occurrence.
func (s *Series) IsValid(t time.Time) bool {
	_, ok := s.Locate(t)
	return ok
}

// Locate returns the index of the occurrence containing t.
//
// Occurrence starts are non-decreasing in the index, so the candidate is
// found by binary search over [0, SearchCeiling) instead of enumerating.
// Instants at or past Horizon are never located.
func (s *Series) Locate(t time.Time) (int, bool) {
	if s.IsExpired(t) || caltime.Compare(t, s.horizon) >= 0 {
		return 0, false
	}

	// smallest index whose start is at or after t
	i := sort.Search(s.cfg.SearchCeiling, func(i int) bool {
		return caltime.Compare(s.startAt(i), t) >= 0
	})

	// walk back to the greatest start <= t
	if i == s.cfg.SearchCeiling {
		i--
	}
	for i >= 0 && caltime.Compare(s.startAt(i), t) > 0 {
		i--
	}
	if i < 0 {
		return 0, false
	}

	if !s.OccurrenceAt(i).Contains(t) {
		return 0, false
	}
	return i, true
}

// Horizon returns the start of occurrence SearchCeiling, the first instant
// Locate and IsValid can no longer cover.
func (s *Series) Horizon() time.Time {
	return s.horizon
}

// Start returns the start of occurrence 0.
func (s *Series) Start() time.Time { return s.cfg.Start }

// End returns the end of occurrence 0.
func (s *Series) End() time.Time { return s.cfg.End }

// Duration returns the constant length of every occurrence.
func (s *Series) Duration() time.Duration { return s.duration }

// Frequency returns the step multiplier.
func (s *Series) Frequency() int { return s.cfg.Frequency }

// Unit returns the step unit.
func (s *Series) Unit() Unit { return s.cfg.Unit }

// Ends returns the termination policy.
func (s *Series) Ends() Ends { return s.cfg.Ends }

// Expiry returns the first excluded instant, if the series ends.
func (s *Series) Expiry() mo.Option[time.Time] { return s.expiry }

// Config returns the normalized configuration the series was built from.
func (s *Series) Config() Config { return s.cfg }
