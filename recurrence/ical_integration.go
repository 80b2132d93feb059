package recurrence

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/cyp0633/librecur/internal/caltime"
)

const productID = "-//Librecur//Go Recurrence//EN"

var unitToFreq = map[Unit]rrule.Frequency{
	Day:   rrule.DAILY,
	Week:  rrule.WEEKLY,
	Month: rrule.MONTHLY,
	Year:  rrule.YEARLY,
}

// RRule describes the series cadence as an RFC 5545 recurrence rule.
//
// UNTIL is inclusive in RFC 5545 while OnDate is exclusive, so UNTIL is set
// one second before the cut-off. Month-end clamping has no RRULE equivalent:
// a MONTHLY rule anchored on the 31st skips short months instead.
func (s *Series) RRule() rrule.ROption {
	opt := rrule.ROption{
		Freq:     unitToFreq[s.cfg.Unit],
		Dtstart:  s.cfg.Start,
		Interval: s.cfg.Frequency,
	}

	switch e := s.cfg.Ends.(type) {
	case AfterCount:
		opt.Count = e.N
	case OnDate:
		opt.Until = e.At.Add(-time.Second)
	}

	return opt
}

// ToEvent renders the series as a VEVENT. A fresh UID is generated when uid
// is empty.
func (s *Series) ToEvent(uid string) *ical.Event {
	if uid == "" {
		uid = uuid.NewString()
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid)
	event.Props.SetDateTime(ical.PropDateTimeStamp, caltime.Now().UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, s.cfg.Start)
	event.Props.SetDateTime(ical.PropDateTimeEnd, s.cfg.End)

	opt := s.RRule()
	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = opt.RRuleString()
	event.Props.Set(prop)

	return event
}

// ConfigFromComponent extracts a series configuration from a VEVENT or VTODO.
//
// The end is taken from DTEND, then DURATION; without either an all-day
// event lasts one day and a timed event is instantaneous. A component without
// RRULE becomes a single-occurrence series.
func ConfigFromComponent(comp *ical.Component) (Config, error) {
	var cfg Config

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil || startProp.Value == "" {
		return cfg, invalid("start", "component has no DTSTART")
	}
	start, err := startProp.DateTime(nil)
	if err != nil {
		return cfg, &Error{Type: ErrInvalidConfiguration, Field: "start", Message: "malformed DTSTART", Err: err}
	}
	cfg.Start = start

	switch {
	case comp.Props.Get(ical.PropDateTimeEnd) != nil:
		end, err := comp.Props.DateTime(ical.PropDateTimeEnd, nil)
		if err != nil {
			return cfg, &Error{Type: ErrInvalidConfiguration, Field: "end", Message: "malformed DTEND", Err: err}
		}
		cfg.End = end
	case comp.Props.Get(ical.PropDuration) != nil:
		d, err := comp.Props.Get(ical.PropDuration).Duration()
		if err != nil {
			return cfg, &Error{Type: ErrInvalidConfiguration, Field: "end", Message: "malformed DURATION", Err: err}
		}
		cfg.End = start.Add(d)
	case isDateOnly(startProp.Params):
		cfg.End = start.AddDate(0, 0, 1)
	default:
		cfg.End = start
	}

	rruleProp := comp.Props.Get(ical.PropRecurrenceRule)
	if rruleProp == nil || rruleProp.Value == "" {
		// a single occurrence; the cadence only needs to be valid
		cfg.Frequency, cfg.Unit = 1, Day
		cfg.Ends = AfterCount{N: 1}
		return cfg, nil
	}

	opt, err := rrule.StrToROption(rruleProp.Value)
	if err != nil {
		return cfg, &Error{Type: ErrUnsupportedRule, Field: "rrule", Message: "failed to parse RRULE", Err: err}
	}
	if err := applyRRule(&cfg, opt); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyRRule maps the subset of RRULE this package can express onto cfg.
func applyRRule(cfg *Config, opt *rrule.ROption) error {
	unsupported := func(format string, args ...any) error {
		return &Error{Type: ErrUnsupportedRule, Field: "rrule", Message: fmt.Sprintf(format, args...)}
	}

	switch opt.Freq {
	case rrule.DAILY:
		cfg.Unit = Day
	case rrule.WEEKLY:
		cfg.Unit = Week
	case rrule.MONTHLY:
		cfg.Unit = Month
	case rrule.YEARLY:
		cfg.Unit = Year
	default:
		return unsupported("frequency %v is not supported", opt.Freq)
	}

	if len(opt.Bysetpos) > 0 || len(opt.Bymonth) > 0 || len(opt.Bymonthday) > 0 ||
		len(opt.Byyearday) > 0 || len(opt.Byweekno) > 0 || len(opt.Byweekday) > 0 ||
		len(opt.Byhour) > 0 || len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 ||
		len(opt.Byeaster) > 0 {
		return unsupported("BY* rule parts are not supported")
	}

	cfg.Frequency = opt.Interval
	if cfg.Frequency == 0 {
		cfg.Frequency = 1
	}

	switch {
	case opt.Count > 0 && !opt.Until.IsZero():
		return unsupported("COUNT and UNTIL are mutually exclusive")
	case opt.Count > 0:
		cfg.Ends = AfterCount{N: opt.Count}
	case !opt.Until.IsZero():
		cfg.Ends = OnDate{At: opt.Until.Add(time.Second)}
	default:
		cfg.Ends = Never{}
	}
	return nil
}

func isDateOnly(params map[string][]string) bool {
	if params == nil {
		return false
	}
	valueParam := params["VALUE"]
	return len(valueParam) > 0 && strings.ToUpper(valueParam[0]) == "DATE"
}

// EncodeICS wraps events in a VCALENDAR and serializes it.
func EncodeICS(events ...*ical.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, event := range events {
		// Ensure DTSTAMP is present
		if event.Props.Get(ical.PropDateTimeStamp) == nil {
			event.Props.SetDateTime(ical.PropDateTimeStamp, caltime.Now().UTC())
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// DecodeICS parses a calendar and extracts one configuration per VEVENT.
func DecodeICS(ics string) ([]Config, error) {
	dec := ical.NewDecoder(strings.NewReader(ics))

	cal, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found in calendar")
	}

	configs := make([]Config, 0, len(events))
	for _, event := range events {
		cfg, err := ConfigFromComponent(event.Component)
		if err != nil {
			uid, _ := event.Props.Text(ical.PropUID)
			return nil, fmt.Errorf("event %q: %w", uid, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
