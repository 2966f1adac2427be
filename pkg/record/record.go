// Package record assembles the single-row feature record handed to the
// classifier. Columns always match the resolved schema in order and count.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/schema"
)

var (
	// ErrMissingValue is returned when a schema column has no collected value.
	ErrMissingValue = errors.New("record: missing value")
	// ErrUnknownFeature is returned under PolicyReject when a column has no
	// descriptor and only free text was collected for it.
	ErrUnknownFeature = errors.New("record: unknown feature")
	// ErrInvalidInput is returned when the state still carries field errors.
	ErrInvalidInput = errors.New("record: invalid input")
)

// Policy decides what happens to free text collected for unknown columns.
type Policy string

const (
	// PolicyPassThrough keeps the text in the record and leaves conversion to
	// the model.
	PolicyPassThrough Policy = "passthrough"
	// PolicyReject refuses to assemble a record containing unknown columns.
	PolicyReject Policy = "reject"
)

// ParsePolicy parses a configuration string. The empty string selects
// PolicyPassThrough.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "passthrough", "pass-through", "pass_through":
		return PolicyPassThrough, nil
	case "reject":
		return PolicyReject, nil
	default:
		return "", fmt.Errorf("record: unknown policy %q", s)
	}
}

// Record is one ordered row of feature values.
type Record struct {
	columns []string
	values  []form.Value
}

// Columns returns the column names in order.
func (r Record) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Values returns the values aligned with Columns.
func (r Record) Values() []form.Value {
	return append([]form.Value(nil), r.values...)
}

// Len reports the number of columns.
func (r Record) Len() int {
	return len(r.columns)
}

// Get returns the value stored for column.
func (r Record) Get(column string) (form.Value, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return form.Value{}, false
}

// Map returns the row as plain Go values keyed by column.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		out[c] = r.values[i].Interface()
	}
	return out
}

// Vector converts the row to floats in column order. Opaque values are parsed
// as numbers; text that does not parse is an error naming the column.
func (r Record) Vector() ([]float64, error) {
	out := make([]float64, len(r.values))
	for i, v := range r.values {
		if n, ok := v.Number(); ok {
			out[i] = n
			continue
		}
		text, _ := v.Text()
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert string to float: %q (column %s)", text, r.columns[i])
		}
		out[i] = n
	}
	return out, nil
}

// Assembler builds records from form state.
type Assembler struct {
	policy Policy
}

// NewAssembler returns an assembler applying policy to unknown columns.
func NewAssembler(policy Policy) *Assembler {
	if policy == "" {
		policy = PolicyPassThrough
	}
	return &Assembler{policy: policy}
}

// Policy reports the unknown-column policy in effect.
func (a *Assembler) Policy() Policy {
	return a.policy
}

// Assemble produces a record whose columns are exactly s, in s order. State
// keys outside the schema are ignored.
func (a *Assembler) Assemble(s schema.Schema, state *form.State) (Record, error) {
	if state == nil {
		state = form.NewState()
	}
	if !state.Valid() {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(state.ErrorKeys(), ", "))
	}

	columns := s.Features()
	rec := Record{
		columns: columns,
		values:  make([]form.Value, len(columns)),
	}
	for i, key := range columns {
		v, ok := state.Value(key)
		if !ok || !v.IsValid() {
			return Record{}, fmt.Errorf("%w for %q", ErrMissingValue, key)
		}
		if v.Kind() == form.KindOpaque && a.policy == PolicyReject {
			return Record{}, fmt.Errorf("%w %q", ErrUnknownFeature, key)
		}
		rec.values[i] = v
	}
	return rec, nil
}
