package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
	rendertemplate "github.com/goliatone/go-riskform/pkg/render/template"
	"github.com/goliatone/go-riskform/pkg/render/template/pongo"
	"github.com/goliatone/go-riskform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-riskform/pkg/widgets"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

// themeStylesheetKey is the asset key looked up through the theme's AssetURL.
const themeStylesheetKey = "vanilla.stylesheet"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	widgets          *widgets.Registry
	policy           *bluemonday.Policy
	stylesheetURL    string
	translator       render.Translator
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the widget component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithWidgetRegistry replaces the registry deciding which widget a field
// gets when the form model does not say.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithSanitizer overrides the policy applied to question and warning text.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithTranslator sets the translator behind the templates' translate
// helper. Defaults to render.DefaultMessages.
func WithTranslator(t render.Translator) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.translator = t
		}
	}
}

// WithStylesheetURL links the stylesheet instead of inlining it.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheetURL = strings.TrimSpace(url)
	}
}

// Renderer produces a complete HTML page for the form.
type Renderer struct {
	templates     rendertemplate.TemplateRenderer
	components    *components.Registry
	widgets       *widgets.Registry
	policy        *bluemonday.Policy
	stylesheetURL string
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	if cfg.translator == nil {
		cfg.translator = render.DefaultMessages()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
			pongo.WithTemplateFuncs(render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	return &Renderer{
		templates:     templates,
		components:    cfg.components,
		widgets:       cfg.widgets,
		policy:        cfg.policy,
		stylesheetURL: cfg.stylesheetURL,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the page. Controls take their values from options.State when
// present, so a re-render after submit keeps what the user entered.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	render.LocalizeFormModel(&fm, options)
	if err := r.widgets.Decorate(&fm); err != nil {
		return nil, fmt.Errorf("vanilla renderer: resolve widgets: %w", err)
	}

	data := components.ComponentData{Template: r.templates}
	if options.Theme != nil {
		data.Partials = options.Theme.Partials
	}

	views := make([]components.FieldView, 0, len(fm.Fields))
	used := make([]string, 0, len(fm.Fields))
	for _, field := range fm.Fields {
		view := r.fieldView(field, options.State)
		descriptor, ok := r.components.Descriptor(view.Widget)
		if !ok {
			return nil, fmt.Errorf("vanilla renderer: component %q not registered for field %q", view.Widget, field.Name)
		}
		var control bytes.Buffer
		if err := descriptor.Renderer(&control, view, data); err != nil {
			return nil, fmt.Errorf("vanilla renderer: render field %q: %w", field.Name, err)
		}
		view.Control = control.String()
		views = append(views, view)
		used = append(used, view.Widget)
	}

	page := r.pageView(fm, options, views, used)
	result, err := r.templates.RenderTemplate("templates/form.tmpl", pagePayload{Page: page})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) fieldView(field model.Field, state *form.State) components.FieldView {
	widget, _ := r.widgets.Resolve(field)
	if widget == "" {
		widget = components.NameText
	}

	value := form.DefaultRaw(field)
	var fieldErr string
	if state != nil {
		if raw, ok := state.Raw(field.Name); ok {
			value = raw
		}
		fieldErr, _ = state.Error(field.Name)
	}

	view := components.FieldView{
		Name:     field.Name,
		ID:       controlID(field.Name),
		Label:    r.policy.Sanitize(field.Label),
		Widget:   widget,
		Value:    value,
		Error:    fieldErr,
		Required: field.Required,
		Unknown:  field.Unknown(),
	}
	view.Min, _ = field.Rule(model.ValidationRuleMin)
	view.Max, _ = field.Rule(model.ValidationRuleMax)
	view.Step = field.Metadata["step"]

	selected, selErr := form.CoerceField(field, value)
	for _, choice := range field.Choices {
		code := strconv.Itoa(choice.Code)
		n, _ := selected.Number()
		view.Choices = append(view.Choices, components.ChoiceView{
			ID:      view.ID + "-" + code,
			Label:   choice.Label,
			Code:    code,
			Checked: selErr == nil && int(n) == choice.Code,
		})
	}
	return view
}

type pageView struct {
	Locale            string                 `json:"locale"`
	Title             string                 `json:"title"`
	Subtitle          string                 `json:"subtitle"`
	Method            string                 `json:"method"`
	Action            string                 `json:"action"`
	Submit            string                 `json:"submit"`
	Fields            []components.FieldView `json:"fields"`
	Warnings          []string               `json:"warnings,omitempty"`
	Errors            []string               `json:"errors,omitempty"`
	ErrorsTitle       string                 `json:"errors_title"`
	Result            *resultView            `json:"result,omitempty"`
	ResultTitle       string                 `json:"result_title"`
	ResultClass       string                 `json:"result_class"`
	ResultProbability string                 `json:"result_probability"`
	Hidden            []hiddenView           `json:"hidden,omitempty"`
	Stylesheets       []string               `json:"stylesheets,omitempty"`
	InlineCSS         string                 `json:"inline_css,omitempty"`
	CSSVars           string                 `json:"css_vars,omitempty"`
	Theme             string                 `json:"theme,omitempty"`
	Variant           string                 `json:"variant,omitempty"`
}

type pagePayload struct {
	Page pageView `json:"page"`
}

type resultView struct {
	Class       string `json:"class"`
	Label       string `json:"label"`
	Probability string `json:"probability"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r *Renderer) pageView(fm model.FormModel, options render.RenderOptions, fields []components.FieldView, used []string) pageView {
	locale := options.Locale
	if locale == "" {
		locale = "pt-BR"
	}
	method := strings.ToUpper(fm.Method)
	if method != "GET" {
		method = "POST"
	}

	page := pageView{
		Locale:            locale,
		Title:             fm.Summary,
		Subtitle:          fm.Description,
		Method:            method,
		Action:            fm.Endpoint,
		Submit:            render.Localize(options, render.KeySubmit, "Prever Obesidade"),
		Fields:            fields,
		Errors:            render.MergeFormErrors(options.Errors),
		ErrorsTitle:       render.Localize(options, render.KeyErrorsTitle, "Erro ao fazer a previsão"),
		ResultTitle:       render.Localize(options, render.KeyResultTitle, "Resultado da Previsão:"),
		ResultClass:       render.Localize(options, render.KeyResultClass, "A previsão é:"),
		ResultProbability: render.Localize(options, render.KeyResultProbability, "Probabilidade de ser Obeso:"),
	}
	for _, w := range fm.Warnings {
		page.Warnings = append(page.Warnings, r.policy.Sanitize(w.Message))
	}
	if res := options.Result; res != nil {
		page.Result = &resultView{
			Class:       strconv.Itoa(res.Class),
			Label:       res.Label,
			Probability: res.ProbabilityText(),
		}
	}
	for _, h := range render.SortedHiddenFields(options.HiddenFields) {
		page.Hidden = append(page.Hidden, hiddenView{Name: h.Name, Value: h.Value})
	}

	stylesheet := r.stylesheetURL
	if t := options.Theme; t != nil {
		page.Theme = t.Theme
		page.Variant = t.Variant
		page.CSSVars = cssVarsStyle(t.CSSVars)
		if t.AssetURL != nil {
			if href := t.AssetURL(themeStylesheetKey); href != "" {
				stylesheet = href
			}
		}
	}
	if stylesheet != "" {
		page.Stylesheets = append(page.Stylesheets, stylesheet)
	} else {
		page.InlineCSS = defaultStylesheet()
	}
	page.Stylesheets = append(page.Stylesheets, r.components.Stylesheets(used)...)
	return page
}

func controlID(name string) string {
	return "rf-" + strings.TrimSpace(name)
}

// cssVarsStyle serialises CSS custom properties in a stable order. Names
// without the leading dashes get them added.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		name := strings.TrimSpace(key)
		value := strings.TrimSpace(vars[key])
		if name == "" || value == "" || strings.ContainsAny(name+value, "{};<>") {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}
