// Package schema resolves the ordered list of feature names a fitted model
// expects. The order is authoritative: records are assembled in exactly this
// order before the model is invoked.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Source records where a resolved feature order came from.
type Source string

const (
	// SourceModel means the fitted model reported its own feature names.
	SourceModel Source = "model"
	// SourceSidecar means the order was read from a file persisted next to
	// the model artifact.
	SourceSidecar Source = "sidecar"
	// SourceCatalog means the descriptor table's declared order was used.
	// Nothing guarantees it matches the order the model was fitted on.
	SourceCatalog Source = "catalog"
)

// ErrEmpty is returned when a source yields no feature names.
var ErrEmpty = errors.New("schema: no feature names")

// Schema is an ordered, duplicate-free list of feature keys.
type Schema struct {
	features []string
	index    map[string]int
	source   Source
	location string
}

// New validates the feature names and builds a Schema. Names are trimmed;
// empty or duplicate names are rejected.
func New(names []string, source Source) (Schema, error) {
	if len(names) == 0 {
		return Schema{}, ErrEmpty
	}
	s := Schema{
		features: make([]string, 0, len(names)),
		index:    make(map[string]int, len(names)),
		source:   source,
	}
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return Schema{}, fmt.Errorf("schema: feature %d has an empty name", i)
		}
		if _, dup := s.index[name]; dup {
			return Schema{}, fmt.Errorf("schema: duplicate feature %q", name)
		}
		s.index[name] = len(s.features)
		s.features = append(s.features, name)
	}
	return s, nil
}

// MustNew panics when New fails.
func MustNew(names []string, source Source) Schema {
	s, err := New(names, source)
	if err != nil {
		panic(err)
	}
	return s
}

// Features returns the ordered feature names.
func (s Schema) Features() []string {
	return append([]string(nil), s.features...)
}

// Len reports the number of features.
func (s Schema) Len() int {
	return len(s.features)
}

// Index returns the position of name, or -1.
func (s Schema) Index(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Contains reports whether name is part of the schema.
func (s Schema) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Source reports where the order came from.
func (s Schema) Source() Source {
	return s.source
}

// Location is the sidecar path for SourceSidecar schemas, empty otherwise.
func (s Schema) Location() string {
	return s.location
}

// Fallback reports whether the order is the unverified catalog order.
func (s Schema) Fallback() bool {
	return s.source == SourceCatalog
}

// Equal reports whether both schemas list the same features in the same
// order. Sources are not compared.
func (s Schema) Equal(other Schema) bool {
	if len(s.features) != len(other.features) {
		return false
	}
	for i := range s.features {
		if s.features[i] != other.features[i] {
			return false
		}
	}
	return true
}
