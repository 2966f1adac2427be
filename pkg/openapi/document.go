package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-riskform/pkg/model"
)

// Component schema names.
const (
	SchemaPredictionRequest = "PredictionRequest"
	SchemaPredictionResult  = "PredictionResult"
	SchemaError             = "Error"

	// ExtensionChoices lists the label/code pairs of a binary field.
	ExtensionChoices = "x-choices"
	// ExtensionUnknown marks a feature without a descriptor.
	ExtensionUnknown = "x-unknown-feature"
)

const (
	defaultPath    = "/api/predict"
	defaultVersion = "1.0.0"
)

// Options tunes document generation.
type Options struct {
	Path    string
	Version string
	Servers []string
}

// Option mutates Options.
type Option func(*Options)

// WithPath overrides the prediction path (default /api/predict).
func WithPath(path string) Option {
	return func(o *Options) {
		if p := strings.TrimSpace(path); p != "" {
			o.Path = p
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(o *Options) {
		if v := strings.TrimSpace(version); v != "" {
			o.Version = v
		}
	}
}

// WithServer appends a server URL.
func WithServer(url string) Option {
	return func(o *Options) {
		if u := strings.TrimSpace(url); u != "" {
			o.Servers = append(o.Servers, u)
		}
	}
}

// Document builds the OpenAPI document for the prediction endpoint described
// by form. The result passes doc.Validate.
func Document(ctx context.Context, form model.FormModel, options ...Option) (*openapi3.T, error) {
	if len(form.Fields) == 0 {
		return nil, errors.New("openapi: form has no fields")
	}
	opts := Options{Path: defaultPath, Version: defaultVersion}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	request, err := RequestSchema(form)
	if err != nil {
		return nil, err
	}

	title := form.Summary
	if title == "" {
		title = "riskform"
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Description: form.Description,
			Version:     opts.Version,
		},
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaPredictionRequest: openapi3.NewSchemaRef("", request),
				SchemaPredictionResult:  openapi3.NewSchemaRef("", resultSchema()),
				SchemaError:             openapi3.NewSchemaRef("", errorSchema()),
			},
		},
	}
	for _, url := range opts.Servers {
		doc.AddServer(&openapi3.Server{URL: url})
	}

	operationID := form.OperationID
	if operationID == "" {
		operationID = "predictObesity"
	}
	operation := &openapi3.Operation{
		OperationID: operationID,
		Summary:     form.Summary,
		Description: form.Description,
		RequestBody: &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchemaRef(componentRef(SchemaPredictionRequest, request)),
		},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: openapi3.NewResponse().
					WithDescription("Predicted class and probability").
					WithJSONSchemaRef(componentRef(SchemaPredictionResult, resultSchema())),
			}),
			openapi3.WithStatus(400, errorResponse("Malformed request body")),
			openapi3.WithStatus(422, errorResponse("Invalid feature values")),
			openapi3.WithStatus(500, errorResponse("Inference failed")),
		),
	}
	doc.AddOperation(opts.Path, "POST", operation)

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: generated document is invalid: %w", err)
	}
	return doc, nil
}

// Load parses a serialized document (JSON or YAML) and resolves its
// references.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return doc, nil
}

// RequestSchema returns the JSON object schema for a prediction request: one
// required property per field, keyed by feature name.
func RequestSchema(form model.FormModel) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	schema.Description = form.Description
	for _, field := range form.Fields {
		prop, err := fieldSchema(field)
		if err != nil {
			return nil, err
		}
		schema.WithProperty(field.Name, prop)
		if field.Required {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema, nil
}

func fieldSchema(field model.Field) (*openapi3.Schema, error) {
	var prop *openapi3.Schema
	switch field.Type {
	case model.FieldTypeInteger:
		prop = openapi3.NewIntegerSchema()
		if err := applyBounds(prop, field); err != nil {
			return nil, err
		}
	case model.FieldTypeNumber:
		prop = openapi3.NewFloat64Schema()
		if err := applyBounds(prop, field); err != nil {
			return nil, err
		}
	case model.FieldTypeChoice:
		prop = openapi3.NewIntegerSchema()
		codes := make([]int, 0, len(field.Choices))
		choices := make([]map[string]any, 0, len(field.Choices))
		parts := make([]string, 0, len(field.Choices))
		for _, c := range field.Choices {
			codes = append(codes, c.Code)
			choices = append(choices, map[string]any{"label": c.Label, "code": c.Code})
			parts = append(parts, fmt.Sprintf("%d=%s", c.Code, c.Label))
		}
		if len(codes) == 0 {
			return nil, fmt.Errorf("openapi: %s: choice field has no options", field.Name)
		}
		sort.Ints(codes)
		prop.WithMin(float64(codes[0])).WithMax(float64(codes[len(codes)-1]))
		prop.Extensions = map[string]any{ExtensionChoices: choices}
		field.Description = strings.TrimSpace(field.Description + " " + strings.Join(parts, ", "))
	case model.FieldTypeUnknown:
		// Any JSON scalar is accepted; the value reaches the model as text.
		prop = &openapi3.Schema{}
		prop.Extensions = map[string]any{ExtensionUnknown: true}
	default:
		return nil, fmt.Errorf("openapi: %s: unsupported field type %q", field.Name, field.Type)
	}
	prop.Title = field.Label
	prop.Description = field.Description
	if field.Default != nil {
		prop.Default = field.Default
	}
	return prop, nil
}

func applyBounds(prop *openapi3.Schema, field model.Field) error {
	if raw, ok := field.Rule(model.ValidationRuleMin); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("openapi: %s: invalid min %q: %w", field.Name, raw, err)
		}
		prop.WithMin(v)
	}
	if raw, ok := field.Rule(model.ValidationRuleMax); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("openapi: %s: invalid max %q: %w", field.Name, raw, err)
		}
		prop.WithMax(v)
	}
	return nil
}

func resultSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("class", openapi3.NewIntegerSchema().WithMin(0).WithMax(1)).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("probability", openapi3.NewFloat64Schema().WithMin(0).WithMax(1))
	schema.Required = []string{"class", "label", "probability"}
	return schema
}

func errorSchema() *openapi3.Schema {
	body := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("details", openapi3.NewObjectSchema())
	body.Required = []string{"code", "message"}

	schema := openapi3.NewObjectSchema().WithProperty("error", body)
	schema.Required = []string{"error"}
	return schema
}

func errorResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(componentRef(SchemaError, errorSchema())),
	}
}

func componentRef(name string, value *openapi3.Schema) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: value}
}
