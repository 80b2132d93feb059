// Package options turns loosely-typed recurrence options, as found in YAML
// files or decoded JSON maps, into a validated recurrence.Config.
package options

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// Raw holds options exactly as supplied, before defaults and validation.
type Raw struct {
	StartDate       Timestamp          `yaml:"start_date"`
	EndDate         Timestamp          `yaml:"end_date"`
	RepeatFrequency mo.Option[float64] `yaml:"-"`
	RepeatInterval  string             `yaml:"repeat_interval"`
	Ends            RawEnds            `yaml:"ends"`
}

// rawDoc is the wire shape of Raw. Frequency is decoded separately so that an
// absent value can be told apart from zero.
type rawDoc struct {
	StartDate       Timestamp `yaml:"start_date"`
	EndDate         Timestamp `yaml:"end_date"`
	RepeatFrequency *float64  `yaml:"repeat_frequency"`
	RepeatInterval  string    `yaml:"repeat_interval"`
	Ends            RawEnds   `yaml:"ends"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Raw) UnmarshalYAML(value *yaml.Node) error {
	var doc rawDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*r = Raw{
		StartDate:      doc.StartDate,
		EndDate:        doc.EndDate,
		RepeatInterval: doc.RepeatInterval,
		Ends:           doc.Ends,
	}
	if doc.RepeatFrequency != nil {
		r.RepeatFrequency = mo.Some(*doc.RepeatFrequency)
	}
	return nil
}

// Timestamp is an optional instant accepting YAML timestamps and a few
// common string layouts.
type Timestamp struct {
	mo.Option[time.Time]
}

// layouts tried, in order, for string values
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// At wraps t as a present Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{mo.Some(t)}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (ts *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	t, ok, err := decodeTime(value)
	if err != nil {
		return err
	}
	if ok {
		ts.Option = mo.Some(t)
	} else {
		ts.Option = mo.None[time.Time]()
	}
	return nil
}

func decodeTime(value *yaml.Node) (time.Time, bool, error) {
	switch value.ShortTag() {
	case "!!null":
		return time.Time{}, false, nil
	case "!!timestamp":
		var t time.Time
		if err := value.Decode(&t); err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	case "!!str":
		s := strings.TrimSpace(value.Value)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true, nil
			}
		}
		return time.Time{}, false, fmt.Errorf("line %d: cannot parse %q as a date", value.Line, value.Value)
	}
	return time.Time{}, false, fmt.Errorf("line %d: expected a date, got %s", value.Line, value.ShortTag())
}

// RawEnds is the untyped termination option: absent or null, a number of
// occurrences, or a date.
type RawEnds struct {
	Count mo.Option[float64]
	Date  mo.Option[time.Time]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *RawEnds) UnmarshalYAML(value *yaml.Node) error {
	*e = RawEnds{}
	switch value.ShortTag() {
	case "!!null":
		return nil
	case "!!int", "!!float":
		var n float64
		if err := value.Decode(&n); err != nil {
			return err
		}
		e.Count = mo.Some(n)
		return nil
	}

	t, ok, err := decodeTime(value)
	if err != nil {
		return fmt.Errorf("ends: %w", err)
	}
	if ok {
		e.Date = mo.Some(t)
	}
	return nil
}

// Parse decodes YAML options.
func Parse(data []byte) (Raw, error) {
	var raw Raw
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Raw{}, fmt.Errorf("failed to parse options: %w", err)
	}
	return raw, nil
}

// FromMap decodes options from a generic map, such as one produced by
// encoding/json. Values go through the same coercion as YAML input.
func FromMap(m map[string]any) (Raw, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return Raw{}, fmt.Errorf("failed to encode options: %w", err)
	}
	return Parse(data)
}

func isWhole(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f)
}
