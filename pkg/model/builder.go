package model

import (
	"github.com/goliatone/go-riskform/internal/model"
	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/schema"
)

// Builder converts a resolved schema into a form model.
type Builder interface {
	Build(s schema.Schema, catalog *features.Catalog) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*model.Options)

// WithLabeler overrides the label generation for columns without a question.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// WithEndpoint sets where the rendered form submits to.
func WithEndpoint(method, endpoint string) BuilderOption {
	return func(opts *model.Options) {
		opts.Method = method
		opts.Endpoint = endpoint
	}
}

// WithTitle overrides the form summary and description.
func WithTitle(summary, description string) BuilderOption {
	return func(opts *model.Options) {
		opts.Summary = summary
		opts.Description = description
	}
}

// WithUnknownWarning overrides the message attached to columns that have no
// descriptor.
func WithUnknownWarning(fn func(key string) string) BuilderOption {
	return func(opts *model.Options) {
		opts.UnknownWarning = fn
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := model.Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return model.New(cfg)
}

// Build is a shorthand for NewBuilder().Build.
func Build(s schema.Schema, catalog *features.Catalog) (FormModel, error) {
	return NewBuilder().Build(s, catalog)
}
