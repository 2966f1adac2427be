package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func sampleForm() model.FormModel {
	return model.FormModel{
		Summary: "Previsão de Obesidade",
		Fields: []model.Field{
			{Name: "idade", Label: "Qual a sua idade? (inteiro)"},
			{Name: "cintura", Label: "Cintura", Type: model.FieldTypeUnknown},
		},
		Warnings: []model.Warning{{
			Code:    model.WarningUnknownWidget,
			Field:   "cintura",
			Message: "Widget não definido para a coluna: cintura",
		}},
	}
}

func TestRegistry_DefaultsToFirstRegistered(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(namedRenderer("html"))
	reg.MustRegister(namedRenderer("tui"))

	got, err := reg.Get("")
	if err != nil || got.Name() != "html" {
		t.Fatalf("expected html default, got %v %v", got, err)
	}
	if err := reg.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if reg.Default() != "tui" {
		t.Fatalf("expected tui default, got %q", reg.Default())
	}
	if err := reg.Register(namedRenderer("html")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if _, err := reg.Get("pdf"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if diff := cmp.Diff([]string{"html", "tui"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizeFormModel_English(t *testing.T) {
	form := sampleForm()
	render.LocalizeFormModel(&form, render.RenderOptions{Locale: "en-GB", Translator: render.DefaultMessages()})

	if form.Summary != "Obesity Prediction" {
		t.Fatalf("unexpected title %q", form.Summary)
	}
	if form.Fields[0].Label != "How old are you? (whole number)" {
		t.Fatalf("unexpected label %q", form.Fields[0].Label)
	}
	if form.Fields[1].Label != "Cintura" {
		t.Fatalf("untranslated label should fall back, got %q", form.Fields[1].Label)
	}
	if form.Warnings[0].Message != "No widget defined for column: cintura" {
		t.Fatalf("unexpected warning %q", form.Warnings[0].Message)
	}
}

func TestLocalizeFormModel_NoTranslatorKeepsText(t *testing.T) {
	form := sampleForm()
	want := sampleForm()
	render.LocalizeFormModel(&form, render.RenderOptions{})
	if diff := cmp.Diff(want, form); diff != "" {
		t.Fatalf("form changed without translator (-want +got):\n%s", diff)
	}
}

func TestLocalize_CustomTranslator(t *testing.T) {
	opts := render.RenderOptions{Translator: stubTranslator{render.KeySubmit: "Enviar"}}
	if got := render.Localize(opts, render.KeySubmit, "x"); got != "Enviar" {
		t.Fatalf("unexpected %q", got)
	}
	if got := render.Localize(opts, render.KeyTitle, "fallback"); got != "fallback" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(render.DefaultMessages(), render.TemplateI18nConfig{})
	translate := funcs["translate"].(func(string, string, ...any) string)
	if got := translate("pt-BR", render.KeySubmit); got != "Prever Obesidade" {
		t.Fatalf("unexpected %q", got)
	}
	if got := translate("pt-BR", "nope"); got != "nope" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestMapErrorPayload(t *testing.T) {
	payload := map[string][]string{
		"/idade":          {"must be at least 0"},
		"body.cintura":    {"required", " required "},
		"$.unknown":       {"Should fall back to form errors"},
		"":                {"Unscoped form error"},
		"request/idade/0": {"nested pointer"},
	}

	mapped := render.MapErrorPayload(sampleForm(), payload)

	wantFields := map[string][]string{
		"idade":   {"must be at least 0", "nested pointer"},
		"cintura": {"required"},
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	if diff := cmp.Diff(wantFields, mapped.Fields, sortStrings); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	wantForm := []string{"Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, sortStrings); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" b ": "2", "": "x"}, render.LocaleField("en"), render.Hidden("a", 1))
	got := render.SortedHiddenFields(merged)
	want := []render.HiddenField{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}, {Name: "locale", Value: "en"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"First", "Second"}, render.MergeFormErrors([]string{" First "}, "Second", "First")); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
