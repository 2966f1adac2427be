package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-riskform/pkg/model"
)

// ValidationError reports request body violations keyed by JSON pointer
// ("/peso"). Problems with the body as a whole are keyed by "/".
type ValidationError struct {
	Paths map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Paths))
	for key := range e.Paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+strings.Join(e.Paths[key], "; "))
	}
	return "openapi: request does not match schema: " + strings.Join(parts, ", ")
}

// RequestValidator checks decoded JSON bodies against the request schema
// derived from a form model.
type RequestValidator struct {
	schema *openapi3.Schema
}

// NewRequestValidator builds the request schema for form.
func NewRequestValidator(form model.FormModel) (*RequestValidator, error) {
	schema, err := RequestSchema(form)
	if err != nil {
		return nil, err
	}
	return &RequestValidator{schema: schema}, nil
}

// Schema exposes the request schema.
func (v *RequestValidator) Schema() *openapi3.Schema {
	return v.schema
}

// Validate checks a decoded JSON object. Numbers must be float64 as produced
// by encoding/json. Every violation is collected, not only the first.
func (v *RequestValidator) Validate(payload map[string]any) error {
	if v == nil || v.schema == nil {
		return errors.New("openapi: request validator is not configured")
	}
	body := make(map[string]any, len(payload))
	for key, value := range payload {
		body[key] = value
	}
	err := v.schema.VisitJSON(body, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	verr := &ValidationError{Paths: map[string][]string{}}
	collectSchemaErrors(err, verr.Paths)
	return verr
}

func collectSchemaErrors(err error, out map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectSchemaErrors(inner, out)
		}
		return
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		path := "/" + strings.Join(schemaErr.JSONPointer(), "/")
		out[path] = append(out[path], schemaErr.Reason)
		return
	}
	out["/"] = append(out["/"], fmt.Sprint(err))
}
