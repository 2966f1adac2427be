package model

import (
	"errors"
	"strconv"
	"strings"

	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/schema"
)

var errCatalogMissing = errors.New("model builder: catalog is required")

// Builder converts a resolved schema into a form model.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options. Zero-valued options keep
// their defaults.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.UnknownWarning != nil {
		opts.UnknownWarning = options.UnknownWarning
	}
	if options.OperationID != "" {
		opts.OperationID = options.OperationID
	}
	if options.Endpoint != "" {
		opts.Endpoint = options.Endpoint
	}
	if options.Method != "" {
		opts.Method = options.Method
	}
	if options.Summary != "" {
		opts.Summary = options.Summary
	}
	if options.Description != "" {
		opts.Description = options.Description
	}
	return &Builder{opts: opts}
}

// Build produces one field per schema key, in schema order. Keys without a
// descriptor become unknown fields and add a warning.
func (b *Builder) Build(s schema.Schema, catalog *features.Catalog) (FormModel, error) {
	if catalog == nil {
		return FormModel{}, errCatalogMissing
	}
	if s.Len() == 0 {
		return FormModel{}, schema.ErrEmpty
	}

	form := FormModel{
		OperationID: b.opts.OperationID,
		Endpoint:    b.opts.Endpoint,
		Method:      strings.ToUpper(b.opts.Method),
		Summary:     b.opts.Summary,
		Description: b.opts.Description,
		Metadata: map[string]string{
			"schemaSource": string(s.Source()),
		},
	}
	if loc := s.Location(); loc != "" {
		form.Metadata["schemaLocation"] = loc
	}

	for _, key := range s.Features() {
		desc, ok := catalog.Lookup(key)
		if !ok {
			form.Fields = append(form.Fields, b.unknownField(key))
			form.Warnings = append(form.Warnings, Warning{
				Code:    WarningUnknownWidget,
				Field:   key,
				Message: b.opts.UnknownWarning(key),
			})
			continue
		}
		switch desc.Kind {
		case features.KindBinary:
			form.Fields = append(form.Fields, choiceField(desc))
		default:
			form.Fields = append(form.Fields, numericField(desc))
		}
	}

	return form, nil
}

func (b *Builder) unknownField(key string) Field {
	return Field{
		Name:     key,
		Type:     FieldTypeUnknown,
		Required: true,
		Label:    b.opts.Labeler(key),
		Default:  "",
	}
}

func numericField(desc features.Descriptor) Field {
	field := Field{
		Name:     desc.Key,
		Type:     FieldTypeNumber,
		Format:   desc.Bounds.Format,
		Required: true,
		Label:    desc.Question,
	}
	if desc.Bounds.Integer {
		field.Type = FieldTypeInteger
		field.Default = int(desc.Default())
	} else {
		field.Default = desc.Default()
	}
	if desc.Bounds.Min != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: map[string]string{"value": formatFloat(*desc.Bounds.Min)},
		})
	}
	if desc.Bounds.Max != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: map[string]string{"value": formatFloat(*desc.Bounds.Max)},
		})
	}
	if desc.Bounds.Step > 0 {
		field.Metadata = map[string]string{"step": formatFloat(desc.Bounds.Step)}
	}
	return field
}

func choiceField(desc features.Descriptor) Field {
	field := Field{
		Name:     desc.Key,
		Type:     FieldTypeChoice,
		Required: true,
		Label:    desc.Question,
		Default:  int(desc.Default()),
	}
	for _, opt := range desc.Options {
		field.Choices = append(field.Choices, Choice{Label: opt.Label, Code: opt.Code})
	}
	return field
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
