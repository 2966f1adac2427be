package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-riskform/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetNumber = "number"
	WidgetRadio  = "radio"
	WidgetSelect = "select"
	WidgetText   = "text"
)

// MetadataKey is where the resolved widget is recorded on each field.
const MetadataKey = "widget"

// Matcher decides whether a widget renderer should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget in the
// field metadata is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Metadata[MetadataKey]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, recording the resolved widget in
// Metadata["widget"] for every field.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	for i, field := range form.Fields {
		widget, ok := r.Resolve(field)
		if !ok {
			continue
		}
		meta := make(map[string]string, len(field.Metadata)+1)
		for k, v := range field.Metadata {
			meta[k] = v
		}
		meta[MetadataKey] = widget
		form.Fields[i].Metadata = meta
	}
	return nil
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetText, 90, func(field model.Field) bool {
		return field.Type == model.FieldTypeUnknown
	})

	r.Register(WidgetRadio, 80, func(field model.Field) bool {
		return field.Type == model.FieldTypeChoice && len(field.Choices) <= 2
	})

	r.Register(WidgetSelect, 70, func(field model.Field) bool {
		return field.Type == model.FieldTypeChoice
	})

	r.Register(WidgetNumber, 60, func(field model.Field) bool {
		return field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber
	})
}
