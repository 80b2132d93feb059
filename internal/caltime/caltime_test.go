package caltime

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvance(t *testing.T) {
	base := time.Date(2024, 1, 31, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		from   time.Time
		amount int
		unit   Unit
		want   time.Time
	}{
		{"one day", base, 1, Day, time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC)},
		{"two weeks", base, 2, Week, time.Date(2024, 2, 14, 12, 30, 0, 0, time.UTC)},
		{"month clamps into leap february", base, 1, Month, time.Date(2024, 2, 29, 12, 30, 0, 0, time.UTC)},
		{"two months keeps the 31st", base, 2, Month, time.Date(2024, 3, 31, 12, 30, 0, 0, time.UTC)},
		{"month clamps into april", base, 3, Month, time.Date(2024, 4, 30, 12, 30, 0, 0, time.UTC)},
		{"month across year end", base, 12, Month, time.Date(2025, 1, 31, 12, 30, 0, 0, time.UTC)},
		{"negative month", base, -2, Month, time.Date(2023, 11, 30, 12, 30, 0, 0, time.UTC)},
		{"leap day plus one year", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 1, Year, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"leap day plus four years", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 4, Year, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"zero is identity", base, 0, Month, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.from, tt.amount, tt.unit)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestAdvanceKeepsWallClockAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// 2024-03-31 is the spring-forward day in Berlin
	start := time.Date(2024, 3, 30, 9, 0, 0, 0, loc)
	got := Advance(start, 1, Day)

	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 23*time.Hour, got.Sub(start))
}

func TestUnitValid(t *testing.T) {
	for _, u := range []Unit{Day, Week, Month, Year} {
		assert.True(t, u.Valid(), string(u))
	}
	assert.False(t, Unit("fortnight").Valid())
	assert.False(t, Unit("").Valid())
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
}

func TestCompare(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(90*time.Second + 500*time.Millisecond)

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 0, Compare(a, a))
	assert.Equal(t, 1, Compare(b, a))
	// same instant in another location
	assert.Equal(t, 0, Compare(a, a.In(time.FixedZone("UTC+8", 8*3600))))
}

func TestCanAdvance(t *testing.T) {
	base := time.Date(2018, 3, 6, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		amount int
		unit   Unit
		want   bool
	}{
		{"million days", 1_000_000, Day, true},
		{"million years", 1_000_000, Year, true},
		{"day overflow", math.MaxInt, Day, false},
		{"week overflow", math.MaxInt / 7, Week, false},
		{"month overflow", math.MaxInt / 2, Month, false},
		{"year past bound", MaxYears, Year, false},
		{"year at bound", MaxYears - 2018, Year, true},
		{"negative", -1_000_000, Month, true},
		{"min int", math.MinInt, Day, false},
		{"unknown unit", 1, Unit("hour"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAdvance(base, tt.amount, tt.unit))
		})
	}
}

func TestAdvanceWithinBound(t *testing.T) {
	base := time.Date(2018, 3, 6, 12, 0, 0, 0, time.UTC)
	for _, unit := range []Unit{Day, Week, Month, Year} {
		amount := 1_000_000_000
		if unit == Year {
			amount = MaxYears - 2018
		}
		if !CanAdvance(base, amount, unit) {
			continue
		}
		got := Advance(base, amount, unit)
		assert.True(t, got.After(base), "unit %s", unit)
	}
}
