package widgets

import (
	"testing"

	"github.com/goliatone/go-riskform/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type:     model.FieldTypeInteger,
		Metadata: map[string]string{"widget": "slider"},
	}

	if got, ok := reg.Resolve(field); !ok || got != "slider" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{"integer", model.Field{Type: model.FieldTypeInteger}, WidgetNumber},
		{"number", model.Field{Type: model.FieldTypeNumber}, WidgetNumber},
		{"binary choice", model.Field{Type: model.FieldTypeChoice, Choices: []model.Choice{{Label: "Não"}, {Label: "Sim", Code: 1}}}, WidgetRadio},
		{"wide choice", model.Field{Type: model.FieldTypeChoice, Choices: make([]model.Choice, 3)}, WidgetSelect},
		{"unknown", model.Field{Type: model.FieldTypeUnknown}, WidgetText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(tc.field)
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestResolve_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(model.Field) bool { return true })
	reg.Register("second", 10, func(model.Field) bool { return true })
	reg.Register("high", 20, func(f model.Field) bool { return f.Name == "x" })

	if got, _ := reg.Resolve(model.Field{Name: "x"}); got != "high" {
		t.Fatalf("expected priority winner, got %q", got)
	}
	if got, _ := reg.Resolve(model.Field{Name: "y"}); got != "first" {
		t.Fatalf("expected registration order tie-break, got %q", got)
	}
	if _, ok := (&Registry{}).Resolve(model.Field{}); ok {
		t.Fatalf("empty registry should not resolve")
	}
}

func TestDecorate_SetsMetadataWithoutAliasing(t *testing.T) {
	shared := map[string]string{"step": "1"}
	form := model.FormModel{Fields: []model.Field{
		{Name: "idade", Type: model.FieldTypeInteger, Metadata: shared},
		{Name: "extra", Type: model.FieldTypeUnknown},
	}}

	if err := NewRegistry().Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if form.Fields[0].Metadata["widget"] != WidgetNumber || form.Fields[1].Metadata["widget"] != WidgetText {
		t.Fatalf("unexpected widgets %+v", form.Fields)
	}
	if _, leaked := shared["widget"]; leaked {
		t.Fatalf("decorate mutated the original metadata map")
	}
}
