package schema

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// FeatureNamer is implemented by fitted models that remember the column order
// they were trained on.
type FeatureNamer interface {
	FeatureNames() []string
}

// Resolver picks the authoritative feature order. The model's own names win,
// then a sidecar file next to the artifact, then the fallback order.
type Resolver struct {
	fallback []string
	artifact string
	logger   *zap.Logger
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithArtifact enables sidecar discovery next to the given artifact path.
func WithArtifact(path string) ResolverOption {
	return func(r *Resolver) {
		r.artifact = path
	}
}

// WithLogger routes fallback warnings to logger.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver that falls back to the given order.
func NewResolver(fallback []string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		fallback: append([]string(nil), fallback...),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Resolve returns the feature order for model. model may be nil.
func (r *Resolver) Resolve(ctx context.Context, model any) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}

	if namer, ok := model.(FeatureNamer); ok {
		if names := namer.FeatureNames(); len(names) > 0 {
			s, err := New(names, SourceModel)
			if err != nil {
				return Schema{}, fmt.Errorf("schema: model feature names: %w", err)
			}
			return s, nil
		}
	}

	if path, ok := findSidecar(SidecarCandidates(r.artifact)); ok {
		names, err := LoadSidecar(path)
		if err != nil {
			return Schema{}, err
		}
		s, err := New(names, SourceSidecar)
		if err != nil {
			return Schema{}, fmt.Errorf("schema: sidecar %s: %w", path, err)
		}
		s.location = path
		return s, nil
	}

	s, err := New(r.fallback, SourceCatalog)
	if err != nil {
		return Schema{}, fmt.Errorf("schema: fallback order: %w", err)
	}
	r.logger.Warn("feature order not recorded with the model; using catalog order",
		zap.String("artifact", r.artifact),
		zap.Int("features", s.Len()),
	)
	return s, nil
}
