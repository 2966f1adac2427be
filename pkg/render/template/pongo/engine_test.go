package pongo_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	opts = append([]pongo.Option{pongo.WithFS(os.DirFS("../testdata"))}, opts...)
	engine, err := pongo.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "  Ada "}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(got) != "Olá, Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer mismatch: %q vs %q", buf.String(), got)
	}
}

func TestEngine_GlobalsAndFuncs(t *testing.T) {
	engine := newEngine(t,
		pongo.WithGlobalData(map[string]any{"env": "staging"}),
		pongo.WithTemplateFuncs(render.TemplateI18nFuncs(render.DefaultMessages(), render.TemplateI18nConfig{})),
	)

	got, err := engine.RenderTemplate("templates/global.tmpl", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(got) != "staging:Prever Obesidade" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderStringAndStructData(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Label string `json:"label"`
	}{Label: "<b>Sim</b>"}

	got, err := engine.RenderString("{{ label }}", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "&lt;b&gt;Sim&lt;/b&gt;" {
		t.Fatalf("expected autoescaped output, got %q", got)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("riskform_shout", func(in any, _ any) (any, error) {
		return strings.ToUpper(in.(string)), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("riskform_shout", func(in any, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	got, err := engine.RenderString(`{{ "obeso"|riskform_shout }}`, nil)
	if err != nil || got != "OBESO" {
		t.Fatalf("unexpected %q %v", got, err)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
