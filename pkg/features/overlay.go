package features

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overlay adjusts a catalog. Entries for known keys replace the fields they
// set; entries for unknown keys append new descriptors (Kind is then
// required).
type Overlay struct {
	Source   string
	Features map[string]FeatureOverride
	// Order optionally lists keys that should be declared first, in order.
	Order []string
}

// FeatureOverride is the per-key overlay payload.
type FeatureOverride struct {
	Question string   `json:"question" yaml:"question"`
	Kind     Kind     `json:"kind" yaml:"kind"`
	Min      *float64 `json:"min" yaml:"min"`
	Max      *float64 `json:"max" yaml:"max"`
	Step     *float64 `json:"step" yaml:"step"`
	Integer  *bool    `json:"integer" yaml:"integer"`
	Format   string   `json:"format" yaml:"format"`
	Options  []Option `json:"options" yaml:"options"`
}

type overlayFile struct {
	Order    []string                   `json:"order" yaml:"order"`
	Features map[string]FeatureOverride `json:"features" yaml:"features"`
}

// LoadOverlayFile reads a JSON or YAML overlay from disk.
func LoadOverlayFile(path string) (Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overlay{}, fmt.Errorf("features: read overlay: %w", err)
	}
	return ParseOverlay(data, path)
}

// ParseOverlay decodes an overlay document, trying JSON first and YAML
// second.
func ParseOverlay(data []byte, source string) (Overlay, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Overlay{}, fmt.Errorf("features: overlay %s is empty", source)
	}

	var doc overlayFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = overlayFile{}
		if yerr := yaml.Unmarshal(data, &doc); yerr != nil {
			return Overlay{}, fmt.Errorf("features: parse overlay %s: invalid JSON or YAML", source)
		}
	}

	out := Overlay{
		Source:   source,
		Features: make(map[string]FeatureOverride, len(doc.Features)),
	}
	for key, override := range doc.Features {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return Overlay{}, fmt.Errorf("features: overlay %s declares an empty key", source)
		}
		out.Features[trimmed] = override
	}
	for _, key := range doc.Order {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out.Order = append(out.Order, trimmed)
		}
	}
	return out, nil
}

// Apply returns a new catalog with the overlay merged in. The receiver is left
// untouched.
func (c *Catalog) Apply(overlay Overlay) (*Catalog, error) {
	descriptors := c.Descriptors()
	index := make(map[string]int, len(descriptors))
	for i, desc := range descriptors {
		index[desc.Key] = i
	}

	// Appended keys follow a stable order so the resulting catalog is
	// deterministic.
	var added []string
	for key := range overlay.Features {
		if _, ok := index[key]; !ok {
			added = append(added, key)
		}
	}
	sort.Strings(added)

	for key, override := range overlay.Features {
		i, ok := index[key]
		if !ok {
			continue
		}
		descriptors[i] = override.merge(descriptors[i])
	}
	for _, key := range added {
		override := overlay.Features[key]
		if override.Kind == "" {
			return nil, fmt.Errorf("features: overlay %s: new feature %q needs a kind", overlay.Source, key)
		}
		descriptors = append(descriptors, override.merge(Descriptor{Key: key}))
	}

	descriptors = reorder(descriptors, overlay.Order)
	catalog, err := NewCatalog(descriptors...)
	if err != nil {
		return nil, fmt.Errorf("features: apply overlay %s: %w", overlay.Source, err)
	}
	return catalog, nil
}

func (o FeatureOverride) merge(desc Descriptor) Descriptor {
	if q := strings.TrimSpace(o.Question); q != "" {
		desc.Question = q
	}
	if o.Kind != "" {
		desc.Kind = o.Kind
	}
	if o.Min != nil {
		desc.Bounds.Min = ptr(*o.Min)
	}
	if o.Max != nil {
		desc.Bounds.Max = ptr(*o.Max)
	}
	if o.Step != nil {
		desc.Bounds.Step = *o.Step
	}
	if o.Integer != nil {
		desc.Bounds.Integer = *o.Integer
	}
	if f := strings.TrimSpace(o.Format); f != "" {
		desc.Bounds.Format = f
	}
	if len(o.Options) > 0 {
		desc.Options = append([]Option(nil), o.Options...)
	}
	return desc
}

func reorder(descriptors []Descriptor, order []string) []Descriptor {
	if len(order) == 0 {
		return descriptors
	}
	out := make([]Descriptor, 0, len(descriptors))
	taken := make(map[string]bool, len(order))
	for _, key := range order {
		for _, desc := range descriptors {
			if desc.Key == key && !taken[key] {
				out = append(out, desc)
				taken[key] = true
			}
		}
	}
	for _, desc := range descriptors {
		if !taken[desc.Key] {
			out = append(out, desc)
		}
	}
	return out
}
