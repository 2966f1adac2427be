package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/widgets"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions. Each
// field becomes one prompt; the answers are the raw strings a browser would
// have submitted for the same form.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	widgets      *widgets.Registry
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme: Theme{
			WarningPrefix: "! ",
			ErrorPrefix:   "x ",
		},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field and serializes the collected raw values.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, opts render.RenderOptions) ([]byte, error) {
	raw, err := r.Collect(ctx, fm, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(fm, raw)
}

// Collect runs the prompts in field order and returns the raw answers keyed
// by feature. Prompts start from opts.State when present, otherwise from the
// field defaults. Previous field errors are printed before re-asking.
func (r *Renderer) Collect(ctx context.Context, fm model.FormModel, opts render.RenderOptions) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	render.LocalizeFormModel(&fm, opts)

	if fm.Summary != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+fm.Summary); err != nil {
			return nil, err
		}
	}

	warned := make(map[string]string, len(fm.Warnings))
	for _, w := range fm.Warnings {
		if w.Field != "" {
			warned[w.Field] = w.Message
			continue
		}
		if err := r.driver.Info(ctx, r.theme.WarningPrefix+w.Message); err != nil {
			return nil, err
		}
	}

	raw := make(map[string]string, len(fm.Fields))
	for _, field := range fm.Fields {
		current := form.DefaultRaw(field)
		if opts.State != nil {
			if v, ok := opts.State.Raw(field.Name); ok {
				current = v
			}
			if msg, ok := opts.State.Error(field.Name); ok {
				if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
					return nil, err
				}
			}
		}
		if msg, ok := warned[field.Name]; ok {
			if err := r.driver.Info(ctx, r.theme.WarningPrefix+msg); err != nil {
				return nil, err
			}
		}

		answer, err := r.promptField(ctx, field, current)
		if err != nil {
			return nil, err
		}
		raw[field.Name] = answer
	}
	return raw, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current string) (string, error) {
	widget, _ := r.widgets.Resolve(field)
	switch widget {
	case widgets.WidgetRadio, widgets.WidgetSelect:
		return r.promptChoice(ctx, field, current)
	case widgets.WidgetNumber:
		return r.driver.Input(ctx, InputConfig{
			Message:   field.Label,
			Default:   current,
			Help:      boundsHelp(field),
			Validator: validatorFor(field),
		})
	default:
		return r.driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
		})
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field model.Field, current string) (string, error) {
	if len(field.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoChoices, field.Name)
	}
	labels := make([]string, len(field.Choices))
	defaultIndex := 0
	selected, selErr := form.CoerceField(field, current)
	selectedCode, _ := selected.Number()
	for i, choice := range field.Choices {
		labels[i] = choice.Label
		if selErr == nil && int(selectedCode) == choice.Code {
			defaultIndex = i
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: defaultIndex,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(field.Choices) {
			return strconv.Itoa(field.Choices[idx].Code), nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, field.Name)); err != nil {
			return "", err
		}
	}
}

// ConfirmSubmit asks whether to run the prediction. The prompt text is the
// localized submit label.
func (r *Renderer) ConfirmSubmit(ctx context.Context, opts render.RenderOptions) (bool, error) {
	return r.driver.Confirm(ctx, ConfirmConfig{
		Message: render.Localize(opts, render.KeySubmit, "Prever Obesidade") + "?",
		Default: true,
	})
}

// ShowResult prints the predicted class and probability.
func (r *Renderer) ShowResult(ctx context.Context, res predict.Result, opts render.RenderOptions) error {
	lines := []string{
		render.Localize(opts, render.KeyResultTitle, "Resultado da Previsão:"),
		render.Localize(opts, render.KeyResultClass, "A previsão é:") + " " + res.Label,
		render.Localize(opts, render.KeyResultProbability, "Probabilidade de ser Obeso:") + " " + res.ProbabilityText(),
	}
	for _, line := range lines {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+line); err != nil {
			return err
		}
	}
	return nil
}

// ShowErrors prints form-level and per-field errors.
func (r *Renderer) ShowErrors(ctx context.Context, state *form.State, messages []string, opts render.RenderOptions) error {
	title := render.Localize(opts, render.KeyErrorsTitle, "Erro ao fazer a previsão")
	if err := r.driver.Info(ctx, r.theme.ErrorPrefix+title); err != nil {
		return err
	}
	for _, msg := range messages {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	if state == nil {
		return nil
	}
	for _, key := range state.ErrorKeys() {
		msg, _ := state.Error(key)
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
	return nil
}

func validatorFor(field model.Field) func(string) error {
	return func(input string) error {
		_, err := form.CoerceField(field, input)
		return err
	}
}

func boundsHelp(field model.Field) string {
	lo, hasMin := field.Rule(model.ValidationRuleMin)
	hi, hasMax := field.Rule(model.ValidationRuleMax)
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s to %s", lo, hi)
	case hasMin:
		return ">= " + lo
	case hasMax:
		return "<= " + hi
	default:
		return ""
	}
}

func (r *Renderer) serialize(fm model.FormModel, raw map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for key, value := range raw {
			values.Set(key, value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range fm.Fields {
			value, ok := raw[field.Name]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "%s: %s\n", field.Name, value)
		}
		return []byte(b.String()), nil
	default:
		out, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("tui: encode values: %w", err)
		}
		return out, nil
	}
}
