package form

import "sort"

// State is the explicit per-request form state.
type State struct {
	raw      map[string]string
	values   map[string]Value
	errors   map[string]string
	warnings []string
}

// NewState returns an empty State.
func NewState() *State {
	return &State{
		raw:    make(map[string]string),
		values: make(map[string]Value),
		errors: make(map[string]string),
	}
}

// SetRaw records the string a control submitted for key.
func (s *State) SetRaw(key, raw string) {
	s.raw[key] = raw
}

// Raw returns the submitted string for key.
func (s *State) Raw(key string) (string, bool) {
	v, ok := s.raw[key]
	return v, ok
}

// Set stores a coerced value and clears any error recorded for key.
func (s *State) Set(key string, v Value) {
	s.values[key] = v
	delete(s.errors, key)
}

// Value returns the coerced value for key.
func (s *State) Value(key string) (Value, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Values returns a copy of all coerced values.
func (s *State) Values() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Fail records a validation message for key and drops its coerced value.
func (s *State) Fail(key, message string) {
	s.errors[key] = message
	delete(s.values, key)
}

// Error returns the message recorded for key.
func (s *State) Error(key string) (string, bool) {
	msg, ok := s.errors[key]
	return msg, ok
}

// Errors returns a copy of the per-field messages.
func (s *State) Errors() map[string]string {
	if len(s.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(s.errors))
	for k, v := range s.errors {
		out[k] = v
	}
	return out
}

// ErrorKeys lists the keys with errors in sorted order.
func (s *State) ErrorKeys() []string {
	keys := make([]string, 0, len(s.errors))
	for k := range s.errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Valid reports whether no field failed.
func (s *State) Valid() bool {
	return len(s.errors) == 0
}

// Warn appends a form-level warning.
func (s *State) Warn(message string) {
	s.warnings = append(s.warnings, message)
}

// Warnings returns the form-level warnings in insertion order.
func (s *State) Warnings() []string {
	return append([]string(nil), s.warnings...)
}
