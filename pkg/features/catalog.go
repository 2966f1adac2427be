package features

import (
	"fmt"
	"strings"
)

// Catalog is an ordered, immutable descriptor table.
type Catalog struct {
	order []string
	byKey map[string]Descriptor
}

// NewCatalog validates the descriptors and keeps them in the order given.
// Duplicate keys are rejected.
func NewCatalog(descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(descriptors)),
		byKey: make(map[string]Descriptor, len(descriptors)),
	}
	for _, desc := range descriptors {
		desc.Key = strings.TrimSpace(desc.Key)
		if err := desc.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.byKey[desc.Key]; exists {
			return nil, fmt.Errorf("features: duplicate descriptor %q", desc.Key)
		}
		desc.Options = append([]Option(nil), desc.Options...)
		c.order = append(c.order, desc.Key)
		c.byKey[desc.Key] = desc
	}
	return c, nil
}

// MustNewCatalog panics when NewCatalog fails. Useful for package-level
// tables.
func MustNewCatalog(descriptors ...Descriptor) *Catalog {
	c, err := NewCatalog(descriptors...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the descriptor registered for key.
func (c *Catalog) Lookup(key string) (Descriptor, bool) {
	if c == nil {
		return Descriptor{}, false
	}
	desc, ok := c.byKey[key]
	if !ok {
		return Descriptor{}, false
	}
	desc.Options = append([]Option(nil), desc.Options...)
	return desc, true
}

// Keys returns the declared key order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Descriptors returns every descriptor in declared order.
func (c *Catalog) Descriptors() []Descriptor {
	if c == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(c.order))
	for _, key := range c.order {
		desc, _ := c.Lookup(key)
		out = append(out, desc)
	}
	return out
}

// Len reports the number of descriptors.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
