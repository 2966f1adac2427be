package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/classifier"
	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/record"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla"
	"github.com/goliatone/go-riskform/pkg/schema"
	"github.com/goliatone/go-riskform/pkg/widgets"
)

const defaultRendererName = vanilla.Name

// ErrInvalidInput is returned by Submit when at least one field failed
// coercion. The Submission still carries the state for re-rendering.
var ErrInvalidInput = record.ErrInvalidInput

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithCatalog replaces the default seventeen-feature catalog.
func WithCatalog(catalog *features.Catalog) Option {
	return func(o *Orchestrator) {
		if catalog != nil {
			o.catalog = catalog
		}
	}
}

// WithClassifier sets the fitted model used by Submit.
func WithClassifier(model classifier.Classifier) Option {
	return func(o *Orchestrator) {
		o.classifier = model
	}
}

// WithSchema pins the feature order. Without it the order is resolved from
// the classifier, falling back to the catalog.
func WithSchema(s schema.Schema) Option {
	return func(o *Orchestrator) {
		o.schema = s
	}
}

// WithArtifactPath records where the classifier was loaded from so a
// feature-order sidecar next to it can be found.
func WithArtifactPath(path string) Option {
	return func(o *Orchestrator) {
		o.artifact = path
	}
}

// WithWidgetRegistry replaces the registry that assigns a widget to each
// field.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.widgets = registry
		}
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		if builder != nil {
			o.builder = builder
		}
	}
}

// WithPolicy selects how opaque values for unknown features are treated.
func WithPolicy(policy record.Policy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run against the generated form
// model before rendering.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithLocale selects UI strings and class labels.
func WithLocale(locale string) Option {
	return func(o *Orchestrator) {
		o.locale = locale
	}
}

// WithTranslator overrides the message catalog used for UI strings.
func WithTranslator(t render.Translator) Option {
	return func(o *Orchestrator) {
		o.translator = t
	}
}

// WithTheme passes design tokens to renderers.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(o *Orchestrator) {
		o.theme = cfg
	}
}

// WithLabels overrides the class labels for the configured locale.
func WithLabels(labels predict.Labels) Option {
	return func(o *Orchestrator) {
		o.labels = &labels
	}
}

// WithLogger sets the logger shared with the resolver and the predictor.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from resolved schema to rendered
// output and prediction. The model, catalog and schema are read-only after
// New, so one Orchestrator serves concurrent requests; per-request data lives
// in form.State.
type Orchestrator struct {
	catalog         *features.Catalog
	classifier      classifier.Classifier
	schema          schema.Schema
	artifact        string
	widgets         *widgets.Registry
	builder         model.Builder
	policy          record.Policy
	assembler       *record.Assembler
	predictor       *predict.Predictor
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	transformer     Transformer
	locale          string
	translator      render.Translator
	theme           *theme.RendererConfig
	labels          *predict.Labels
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations. Errors
// raised while resolving defaults surface on the first call that needs them.
func New(ctx context.Context, options ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:         features.Default(),
		defaultRenderer: defaultRendererName,
		locale:          predict.DefaultLocale,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults(ctx)
	return o
}

func (o *Orchestrator) applyDefaults(ctx context.Context) {
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.translator == nil {
		o.translator = render.DefaultMessages()
	}
	if o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New(vanilla.WithTranslator(o.translator))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	policy := o.policy
	if policy == "" {
		policy = record.PolicyPassThrough
	}
	o.assembler = record.NewAssembler(policy)

	predictOpts := []predict.Option{predict.WithLocale(o.locale), predict.WithLogger(o.logger)}
	if o.labels != nil {
		predictOpts = append(predictOpts, predict.WithLabels(*o.labels))
	}
	o.predictor = predict.New(o.classifier, predictOpts...)

	if o.schema.Len() == 0 {
		resolver := schema.NewResolver(o.catalog.Keys(),
			schema.WithArtifact(o.artifact),
			schema.WithLogger(o.logger),
		)
		resolved, err := resolver.Resolve(ctx, o.classifier)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: resolve schema: %w", err)
			return
		}
		o.schema = resolved
	}
}

// Schema returns the resolved feature order.
func (o *Orchestrator) Schema() schema.Schema {
	return o.schema
}

// Catalog returns the descriptor table in use.
func (o *Orchestrator) Catalog() *features.Catalog {
	return o.catalog
}

// Locale returns the configured locale.
func (o *Orchestrator) Locale() string {
	return o.locale
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Form builds the form model for the resolved schema, applying the
// transformer, widget resolution and decorators. Each call returns a fresh
// model the caller may mutate.
func (o *Orchestrator) Form(ctx context.Context) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}

	fm, err := o.builder.Build(o.schema, o.catalog)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if err := o.applyTransformer(ctx, &fm); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&fm); err != nil {
		return model.FormModel{}, err
	}
	return fm, nil
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. Empty selects the default.
	Renderer string

	// Submission, when set, supplies the state, result and errors to show.
	Submission *Submission

	// RenderOptions carries anything else a renderer understands. Locale,
	// Translator and Theme default to the orchestrator's configuration.
	RenderOptions render.RenderOptions
}

// Render builds the form and hands it to the selected renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	fm, err := o.Form(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := o.RenderOptions(req.RenderOptions, req.Submission)
	output, err := renderer.Render(ctx, fm, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// RenderOptions fills per-request options with the orchestrator defaults and
// the submission's state, result and errors.
func (o *Orchestrator) RenderOptions(opts render.RenderOptions, sub *Submission) render.RenderOptions {
	if opts.Locale == "" {
		opts.Locale = o.locale
	}
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	if opts.Theme == nil {
		opts.Theme = o.theme
	}
	if sub != nil {
		if opts.State == nil {
			opts.State = sub.State
		}
		if opts.Result == nil {
			opts.Result = sub.Result
		}
		opts.Errors = render.MergeFormErrors(opts.Errors, sub.Errors...)
	}
	return opts
}

// Submission is the outcome of one submit: the collected state plus either a
// result or the messages explaining why there is none.
type Submission struct {
	State  *form.State
	Record record.Record
	Result *predict.Result
	// Errors are form-level messages, such as an inference failure. Field
	// errors stay in State.
	Errors []string
}

// Submit coerces raw form input, assembles the record in schema order and
// runs the predictor. Invalid input returns ErrInvalidInput; an inference
// failure returns *predict.InferenceError. In both cases the Submission is
// populated so the form can be re-rendered with the input preserved.
func (o *Orchestrator) Submit(ctx context.Context, raw map[string]string) (*Submission, error) {
	fm, err := o.Form(ctx)
	if err != nil {
		return nil, err
	}
	return o.submitState(ctx, form.Collect(fm, raw))
}

// SubmitJSON is Submit for a decoded JSON object.
func (o *Orchestrator) SubmitJSON(ctx context.Context, payload map[string]any) (*Submission, error) {
	fm, err := o.Form(ctx)
	if err != nil {
		return nil, err
	}
	return o.submitState(ctx, form.CollectAny(fm, payload))
}

func (o *Orchestrator) submitState(ctx context.Context, state *form.State) (*Submission, error) {
	sub := &Submission{State: state}
	if !state.Valid() {
		return sub, fmt.Errorf("orchestrator: %w: %d field(s) rejected", ErrInvalidInput, len(state.ErrorKeys()))
	}

	rec, err := o.assembler.Assemble(o.schema, state)
	if err != nil {
		sub.Errors = append(sub.Errors, err.Error())
		return sub, fmt.Errorf("orchestrator: assemble record: %w", err)
	}
	sub.Record = rec

	result, err := o.predictor.Predict(ctx, rec)
	if err != nil {
		sub.Errors = append(sub.Errors, err.Error())
		return sub, err
	}
	sub.Result = &result
	o.logger.Debug("prediction completed",
		zap.Int("class", result.Class),
		zap.Float64("probability", result.Probability),
	)
	return sub, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, err := o.registry.Get("")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: no renderers registered: %w", err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDecorators(fm *model.FormModel) error {
	decorators := append([]model.Decorator{o.widgets}, o.decorators...)
	if err := model.Decorate(fm, decorators...); err != nil {
		return fmt.Errorf("orchestrator: decorate form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, fm *model.FormModel) error {
	if o.transformer == nil || fm == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, fm); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}
