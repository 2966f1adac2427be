package features

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind enumerates how a feature is collected.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindBinary  Kind = "binary"
)

// Option pairs a displayed label with the code the model was trained on.
type Option struct {
	Label string `json:"label" yaml:"label"`
	Code  int    `json:"code" yaml:"code"`
}

// Bounds constrain numeric input. Max is optional; a nil Max means the input
// is only bounded from below.
type Bounds struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step    float64  `json:"step,omitempty" yaml:"step,omitempty"`
	Integer bool     `json:"integer,omitempty" yaml:"integer,omitempty"`
	// Format is a printf verb used when displaying the value (e.g. "%.2f").
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Descriptor is the static metadata describing how to collect and encode one
// feature.
type Descriptor struct {
	Key      string   `json:"key" yaml:"key"`
	Question string   `json:"question" yaml:"question"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Bounds   Bounds   `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Options  []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

var (
	// ErrUnknownLabel is returned when a binary choice receives a label that is
	// not one of its two declared options.
	ErrUnknownLabel = errors.New("features: unknown option label")
	// ErrOutOfRange is returned when a numeric value violates its bounds.
	ErrOutOfRange = errors.New("features: value out of range")
)

// Numeric builds an integer descriptor bounded by [min, max] with step 1.
func Numeric(key, question string, min, max float64) Descriptor {
	return Descriptor{
		Key:      key,
		Question: question,
		Kind:     KindNumeric,
		Bounds:   Bounds{Min: ptr(min), Max: ptr(max), Step: 1, Integer: true},
	}
}

// AtLeast builds an integer descriptor bounded only from below.
func AtLeast(key, question string, min float64) Descriptor {
	return Descriptor{
		Key:      key,
		Question: question,
		Kind:     KindNumeric,
		Bounds:   Bounds{Min: ptr(min), Step: 1, Integer: true},
	}
}

// Decimal builds a fractional descriptor bounded from below, displayed with
// the provided number of decimal places.
func Decimal(key, question string, min float64, places int) Descriptor {
	return Descriptor{
		Key:      key,
		Question: question,
		Kind:     KindNumeric,
		Bounds: Bounds{
			Min:    ptr(min),
			Step:   math.Pow10(-places),
			Format: fmt.Sprintf("%%.%df", places),
		},
	}
}

// Binary builds a two-option descriptor. Options are kept in the order given,
// which is also the display order.
func Binary(key, question string, first, second Option) Descriptor {
	return Descriptor{
		Key:      key,
		Question: question,
		Kind:     KindBinary,
		Options:  []Option{first, second},
	}
}

// Validate checks the descriptor is internally consistent.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return errors.New("features: descriptor key is required")
	}
	switch d.Kind {
	case KindNumeric:
		if len(d.Options) > 0 {
			return fmt.Errorf("features: %s: numeric descriptor cannot declare options", d.Key)
		}
		if d.Bounds.Min != nil && d.Bounds.Max != nil && *d.Bounds.Min > *d.Bounds.Max {
			return fmt.Errorf("features: %s: min %v greater than max %v", d.Key, *d.Bounds.Min, *d.Bounds.Max)
		}
		if d.Bounds.Step < 0 {
			return fmt.Errorf("features: %s: negative step", d.Key)
		}
	case KindBinary:
		if len(d.Options) != 2 {
			return fmt.Errorf("features: %s: binary descriptor needs exactly two options, got %d", d.Key, len(d.Options))
		}
		a, b := d.Options[0], d.Options[1]
		if a.Code == b.Code {
			return fmt.Errorf("features: %s: options share code %d", d.Key, a.Code)
		}
		for _, opt := range d.Options {
			if opt.Code != 0 && opt.Code != 1 {
				return fmt.Errorf("features: %s: option %q has code %d, want 0 or 1", d.Key, opt.Label, opt.Code)
			}
			if strings.TrimSpace(opt.Label) == "" {
				return fmt.Errorf("features: %s: option label is required", d.Key)
			}
		}
		if strings.EqualFold(strings.TrimSpace(a.Label), strings.TrimSpace(b.Label)) {
			return fmt.Errorf("features: %s: options share label %q", d.Key, a.Label)
		}
	default:
		return fmt.Errorf("features: %s: unsupported kind %q", d.Key, d.Kind)
	}
	return nil
}

// CodeFor resolves a displayed label to its code. Matching ignores case and
// surrounding whitespace.
func (d Descriptor) CodeFor(label string) (int, error) {
	want := strings.TrimSpace(label)
	for _, opt := range d.Options {
		if strings.EqualFold(strings.TrimSpace(opt.Label), want) {
			return opt.Code, nil
		}
	}
	return 0, fmt.Errorf("%w %q for %s", ErrUnknownLabel, label, d.Key)
}

// LabelFor resolves a code back to its displayed label.
func (d Descriptor) LabelFor(code int) (string, bool) {
	for _, opt := range d.Options {
		if opt.Code == code {
			return opt.Label, true
		}
	}
	return "", false
}

// CheckNumber reports whether v satisfies the numeric bounds.
func (d Descriptor) CheckNumber(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrOutOfRange, d.Key)
	}
	if d.Bounds.Integer && v != math.Trunc(v) {
		return fmt.Errorf("%w: %s must be a whole number", ErrOutOfRange, d.Key)
	}
	if d.Bounds.Min != nil && v < *d.Bounds.Min {
		return fmt.Errorf("%w: %s must be at least %s", ErrOutOfRange, d.Key, formatBound(*d.Bounds.Min))
	}
	if d.Bounds.Max != nil && v > *d.Bounds.Max {
		return fmt.Errorf("%w: %s must be at most %s", ErrOutOfRange, d.Key, formatBound(*d.Bounds.Max))
	}
	return nil
}

// Default returns the value a fresh control starts with: the lower bound for
// numeric inputs (zero when unbounded) and the first option's code for binary
// choices.
func (d Descriptor) Default() float64 {
	switch d.Kind {
	case KindBinary:
		if len(d.Options) > 0 {
			return float64(d.Options[0].Code)
		}
	case KindNumeric:
		if d.Bounds.Min != nil {
			return *d.Bounds.Min
		}
	}
	return 0
}

func formatBound(v float64) string {
	return fmt.Sprintf("%g", v)
}

func ptr(v float64) *float64 {
	return &v
}
