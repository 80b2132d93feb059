package options

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/cyp0633/librecur/recurrence"
)

// ValidationError collects every field violation found in a Raw.
type ValidationError struct {
	Errors []*recurrence.Error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return "invalid options: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Validator coerces Raw options into recurrence configurations
type Validator struct {
	logger *slog.Logger
}

// Option represents a configuration option for the Validator
type Option func(*Validator)

// WithLogger sets the logger for the validator
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator creates a validator. Logging is discarded unless WithLogger is given.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate applies defaults (frequency 1, interval day, never ending) and
// checks every field. All violations are reported together.
func (v *Validator) Validate(raw Raw) (recurrence.Config, error) {
	var (
		cfg  recurrence.Config
		errs []*recurrence.Error
	)
	fail := func(field, format string, args ...any) {
		errs = append(errs, &recurrence.Error{
			Type:    recurrence.ErrInvalidConfiguration,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
		})
	}

	start, hasStart := raw.StartDate.Get()
	end, hasEnd := raw.EndDate.Get()
	switch {
	case !hasStart:
		fail("start_date", "is required")
	case !hasEnd:
		fail("end_date", "is required")
	case end.Before(start):
		fail("end_date", "must be at or after start_date")
	}
	cfg.Start, cfg.End = start, end

	cfg.Frequency = 1
	if freq, ok := raw.RepeatFrequency.Get(); ok {
		// fractional steps round to the nearest whole unit
		switch rounded := math.Round(freq); {
		case math.IsNaN(rounded) || rounded < 1:
			fail("repeat_frequency", "must round to at least 1, got %v", freq)
		case rounded > math.MaxInt32:
			fail("repeat_frequency", "is too large, got %v", freq)
		default:
			cfg.Frequency = int(rounded)
		}
	}

	cfg.Unit = recurrence.Day
	if raw.RepeatInterval != "" {
		unit := recurrence.Unit(strings.ToLower(strings.TrimSpace(raw.RepeatInterval)))
		if unit.Valid() {
			cfg.Unit = unit
		} else {
			fail("repeat_interval", "must be one of day, week, month, year, got %q", raw.RepeatInterval)
		}
	}

	cfg.Ends = recurrence.Never{}
	if n, ok := raw.Ends.Count.Get(); ok {
		switch {
		case n <= 0:
			fail("ends", "occurrence count must be greater than 0, got %v", n)
		case !isWhole(n):
			fail("ends", "occurrence count must be a whole number, got %v", n)
		default:
			cfg.Ends = recurrence.AfterCount{N: int(n)}
		}
	} else if at, ok := raw.Ends.Date.Get(); ok {
		if hasStart && at.Before(start) {
			fail("ends", "date must be at or after start_date")
		} else {
			cfg.Ends = recurrence.OnDate{At: at}
		}
	}

	if len(errs) > 0 {
		verr := &ValidationError{Errors: errs}
		v.logger.Warn("recurrence options rejected", "error", verr.Error())
		return recurrence.Config{}, verr
	}

	v.logger.Debug("recurrence options validated",
		"start", cfg.Start,
		"end", cfg.End,
		"frequency", cfg.Frequency,
		"unit", cfg.Unit,
		"ends", cfg.Ends.String())

	return cfg, nil
}

// Build validates raw and constructs the series.
func (v *Validator) Build(raw Raw) (*recurrence.Series, error) {
	cfg, err := v.Validate(raw)
	if err != nil {
		return nil, err
	}

	s, err := recurrence.New(cfg)
	if err != nil {
		v.logger.Warn("recurrence series rejected", "error", err)
		return nil, err
	}
	return s, nil
}

// Load reads a YAML options file and builds the series it describes.
func (v *Validator) Load(path string) (*recurrence.Series, error) {
	if path == "" {
		return nil, errors.New("options path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}

	raw, err := Parse(data)
	if err != nil {
		return nil, err
	}

	v.logger.Info("loaded recurrence options", "path", path)
	return v.Build(raw)
}
