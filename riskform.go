package riskform

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/classifier"
	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/orchestrator"
	"github.com/goliatone/go-riskform/pkg/record"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
	"github.com/goliatone/go-riskform/pkg/schema"
)

// ErrArtifactNotFound aliases classifier.ErrArtifactNotFound.
var ErrArtifactNotFound = classifier.ErrArtifactNotFound

// Options configures Open.
type Options struct {
	// ModelPath is the classifier artifact (YAML or JSON). Required.
	ModelPath string
	// CatalogPath optionally points at a catalog overlay.
	CatalogPath string
	// PresetPath optionally points at a form preset (labels, title).
	PresetPath string
	// UnknownFeatures is "passthrough" (default) or "reject".
	UnknownFeatures string
	// Locale selects UI strings and class labels. Empty means pt-BR.
	Locale string
	// Theme is forwarded to renderers.
	Theme *theme.RendererConfig
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Extra options are applied after the ones derived above.
	Extra []orchestrator.Option
}

// Open loads everything needed to serve forms. A missing artifact fails with
// ErrArtifactNotFound before any form is built.
func Open(ctx context.Context, opts Options) (*orchestrator.Orchestrator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	model, err := classifier.Load(opts.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("riskform: load model: %w", err)
	}

	catalog := features.Default()
	if opts.CatalogPath != "" {
		overlay, err := features.LoadOverlayFile(opts.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("riskform: load catalog overlay: %w", err)
		}
		if catalog, err = catalog.Apply(overlay); err != nil {
			return nil, fmt.Errorf("riskform: apply catalog overlay: %w", err)
		}
	}

	resolver := schema.NewResolver(catalog.Keys(),
		schema.WithArtifact(opts.ModelPath),
		schema.WithLogger(logger),
	)
	resolved, err := resolver.Resolve(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("riskform: resolve schema: %w", err)
	}
	if binder, ok := model.(classifier.Binder); ok {
		if err := binder.Bind(resolved.Features()); err != nil {
			return nil, fmt.Errorf("riskform: bind model to %s schema: %w", resolved.Source(), err)
		}
	}

	policy, err := record.ParsePolicy(opts.UnknownFeatures)
	if err != nil {
		return nil, fmt.Errorf("riskform: %w", err)
	}

	logger.Info("model loaded",
		zap.String("path", opts.ModelPath),
		zap.String("schema_source", string(resolved.Source())),
		zap.Int("features", resolved.Len()),
		zap.String("unknown_features", string(policy)),
	)

	options := []orchestrator.Option{
		orchestrator.WithCatalog(catalog),
		orchestrator.WithClassifier(model),
		orchestrator.WithSchema(resolved),
		orchestrator.WithArtifactPath(opts.ModelPath),
		orchestrator.WithPolicy(policy),
		orchestrator.WithTheme(opts.Theme),
		orchestrator.WithLogger(logger),
	}
	if opts.Locale != "" {
		options = append(options, orchestrator.WithLocale(opts.Locale))
	}
	if opts.PresetPath != "" {
		preset, err := orchestrator.NewPresetTransformerFromFile(opts.PresetPath)
		if err != nil {
			return nil, fmt.Errorf("riskform: %w", err)
		}
		options = append(options, orchestrator.WithSchemaTransformer(preset))
	}
	options = append(options, opts.Extra...)

	orch := orchestrator.New(ctx, options...)
	if _, err := orch.Form(ctx); err != nil {
		return nil, fmt.Errorf("riskform: %w", err)
	}
	return orch, nil
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the stylesheet served under /assets/.
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
