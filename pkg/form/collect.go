package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-riskform/pkg/model"
)

var (
	// ErrRequired is returned when a numeric or choice control was left empty.
	ErrRequired = errors.New("form: value is required")
	// ErrInvalidNumber is returned when the input does not parse as a number.
	ErrInvalidNumber = errors.New("form: not a number")
	// ErrOutOfRange is returned when a number violates its bounds.
	ErrOutOfRange = errors.New("form: value out of range")
	// ErrUnknownChoice is returned when a choice is neither a declared code
	// nor a declared label.
	ErrUnknownChoice = errors.New("form: unknown option")
)

// maxExactInteger is the largest integer a float64 holds exactly. Integer
// inputs beyond it cannot round-trip through the model's float row.
const maxExactInteger = 1<<53 - 1

// Collect coerces raw submitted strings into a State. Keys absent from raw
// start at the field default, mirroring a control that was never touched.
// Coercion failures become per-field errors; the raw input is preserved so
// the form can be re-rendered as submitted.
func Collect(fm model.FormModel, raw map[string]string) *State {
	state := NewState()
	for _, w := range fm.Warnings {
		state.Warn(w.Message)
	}
	for _, field := range fm.Fields {
		input, ok := raw[field.Name]
		if !ok {
			input = DefaultRaw(field)
		}
		state.SetRaw(field.Name, input)

		value, err := CoerceField(field, input)
		if err != nil {
			state.Fail(field.Name, err.Error())
			continue
		}
		state.Set(field.Name, value)
	}
	return state
}

// CollectAny converts a decoded JSON object into raw strings and collects it.
// Numbers, strings and booleans are accepted; anything else is a field error.
func CollectAny(fm model.FormModel, payload map[string]any) *State {
	raw := make(map[string]string, len(payload))
	var invalid []string
	for key, v := range payload {
		s, ok := stringify(v)
		if !ok {
			invalid = append(invalid, key)
			continue
		}
		raw[key] = s
	}
	state := Collect(fm, raw)
	for _, key := range invalid {
		if _, known := fm.Field(key); known {
			state.SetRaw(key, fmt.Sprint(payload[key]))
			state.Fail(key, fmt.Sprintf("%s: unsupported value type %T", key, payload[key]))
		}
	}
	return state
}

// DefaultRaw returns the string an untouched control would submit.
func DefaultRaw(field model.Field) string {
	switch d := field.Default.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(d, 'f', -1, 64)
	case string:
		return d
	default:
		return fmt.Sprint(d)
	}
}

// CoerceField converts one raw string into the field's typed value.
func CoerceField(field model.Field, raw string) (Value, error) {
	input := strings.TrimSpace(raw)
	switch field.Type {
	case model.FieldTypeUnknown:
		return Opaque(raw), nil
	case model.FieldTypeChoice:
		return coerceChoice(field, input)
	case model.FieldTypeInteger, model.FieldTypeNumber:
		return coerceNumber(field, input)
	default:
		return Value{}, fmt.Errorf("form: %s: unsupported field type %q", field.Name, field.Type)
	}
}

func coerceNumber(field model.Field, input string) (Value, error) {
	if input == "" {
		return Value{}, fmt.Errorf("%w: %s", ErrRequired, field.Name)
	}
	v, err := strconv.ParseFloat(strings.Replace(input, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}, fmt.Errorf("%w: %s: %q", ErrInvalidNumber, field.Name, input)
	}
	if field.Type == model.FieldTypeInteger {
		if v != math.Trunc(v) {
			return Value{}, fmt.Errorf("%w: %s must be a whole number", ErrOutOfRange, field.Name)
		}
		if math.Abs(v) > maxExactInteger {
			return Value{}, fmt.Errorf("%w: %s must be at most %s in magnitude", ErrOutOfRange, field.Name, formatNumber(maxExactInteger))
		}
	}
	if min, ok := bound(field, model.ValidationRuleMin); ok && v < min {
		return Value{}, fmt.Errorf("%w: %s must be at least %s", ErrOutOfRange, field.Name, formatNumber(min))
	}
	if max, ok := bound(field, model.ValidationRuleMax); ok && v > max {
		return Value{}, fmt.Errorf("%w: %s must be at most %s", ErrOutOfRange, field.Name, formatNumber(max))
	}
	if field.Type == model.FieldTypeInteger {
		return Int(int64(v)), nil
	}
	return Float(v), nil
}

func coerceChoice(field model.Field, input string) (Value, error) {
	if input == "" {
		return Value{}, fmt.Errorf("%w: %s", ErrRequired, field.Name)
	}
	if code, err := strconv.Atoi(input); err == nil {
		if _, ok := field.ChoiceByCode(code); ok {
			return Code(code), nil
		}
	}
	for _, c := range field.Choices {
		if strings.EqualFold(strings.TrimSpace(c.Label), input) {
			return Code(c.Code), nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s: %q", ErrUnknownChoice, field.Name, input)
}

func bound(field model.Field, kind string) (float64, bool) {
	raw, ok := field.Rule(kind)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		if t {
			return "1", true
		}
		return "0", true
	default:
		return "", false
	}
}
