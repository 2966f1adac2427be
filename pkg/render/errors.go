package render

import (
	"strings"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by feature name.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises error payloads keyed by JSON pointers or dotted
// paths ("/idade", "body.idade", "$.idade") onto feature names. Paths that
// do not name a field are treated as form-level so messages are not lost.
func MapErrorPayload(fm model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}

	known := make(map[string]struct{}, len(fm.Fields))
	for _, field := range fm.Fields {
		known[field.Name] = struct{}{}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name := fieldFromPath(rawPath)
		if _, ok := known[name]; !ok {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// StateErrors lifts per-field messages out of a form state into the same
// shape MapErrorPayload produces.
func StateErrors(state *form.State) map[string][]string {
	if state == nil || state.Valid() {
		return nil
	}
	out := make(map[string][]string)
	for key, msg := range state.Errors() {
		out[key] = []string{msg}
	}
	return out
}

func fieldFromPath(path string) string {
	clean := strings.TrimSpace(path)
	for _, prefix := range []string{"#/", "$.", "$/", "/", "#", "$"} {
		clean = strings.TrimPrefix(clean, prefix)
	}
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	for len(parts) > 0 && isWrapperSegment(parts[0]) {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return ""
	}
	segment := strings.ReplaceAll(parts[0], "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

func isWrapperSegment(segment string) bool {
	switch strings.ToLower(segment) {
	case "body", "request", "payload", "data":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
