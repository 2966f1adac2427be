package form

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindCode
	// KindOpaque carries free text collected for a column without a
	// descriptor. Whether it reaches the model is decided at assembly time.
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindCode:
		return "code"
	case KindOpaque:
		return "opaque"
	default:
		return "invalid"
	}
}

// Value is a typed scalar collected for one feature.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Int wraps a whole number.
func Int(v int64) Value { return Value{kind: KindInt, num: float64(v)} }

// Float wraps a fractional number.
func Float(v float64) Value { return Value{kind: KindFloat, num: v} }

// Code wraps a binary option code.
func Code(v int) Value { return Value{kind: KindCode, num: float64(v)} }

// Opaque wraps free text.
func Opaque(s string) Value { return Value{kind: KindOpaque, text: s} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether the value was set.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Number returns the numeric payload. Opaque and invalid values report false.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt, KindFloat, KindCode:
		return v.num, true
	default:
		return 0, false
	}
}

// Text returns the opaque payload.
func (v Value) Text() (string, bool) {
	if v.kind != KindOpaque {
		return "", false
	}
	return v.text, true
}

// String renders the value the way a control would display it.
func (v Value) String() string {
	switch v.kind {
	case KindInt, KindCode:
		return strconv.FormatInt(int64(v.num), 10)
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindOpaque:
		return v.text
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value (int64, float64, int or
// string), or nil.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return int64(v.num)
	case KindFloat:
		return v.num
	case KindCode:
		return int(v.num)
	case KindOpaque:
		return v.text
	default:
		return nil
	}
}

// MarshalJSON emits the payload without the tag.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// GoString aids debugging output in tests.
func (v Value) GoString() string {
	return fmt.Sprintf("form.Value{%s:%s}", v.kind, v.String())
}
