package openapi_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/openapi"
	"github.com/goliatone/go-riskform/pkg/schema"
)

func buildForm(t *testing.T, names ...string) model.FormModel {
	t.Helper()
	catalog := features.Default()
	if len(names) == 0 {
		names = catalog.Keys()
	}
	fm, err := model.Build(schema.MustNew(names, schema.SourceModel), catalog)
	if err != nil {
		t.Fatalf("build form: %v", err)
	}
	return fm
}

func TestDocument_ValidatesAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	doc, err := openapi.Document(ctx, buildForm(t), openapi.WithServer("http://localhost:8080"))
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, err := openapi.Load(ctx, raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := loaded.Validate(ctx); err != nil {
		t.Fatalf("reloaded document invalid: %v", err)
	}

	item := loaded.Paths.Find("/api/predict")
	if item == nil || item.Post == nil {
		t.Fatalf("expected POST /api/predict")
	}
	if item.Post.OperationID != "predictObesity" {
		t.Fatalf("unexpected operation id %q", item.Post.OperationID)
	}
	request := item.Post.RequestBody.Value.Content.Get("application/json").Schema.Value
	if got := len(request.Properties); got != 17 {
		t.Fatalf("expected 17 request properties, got %d", got)
	}
	if diff := cmp.Diff(features.Default().Keys(), request.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestSchema_FieldShapes(t *testing.T) {
	s, err := openapi.RequestSchema(buildForm(t, "vegetais", "idade", "altura", "transporte", "imc"))
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}

	vegetais := s.Properties["vegetais"].Value
	if !vegetais.Type.Is("integer") || *vegetais.Min != 1 || *vegetais.Max != 3 {
		t.Fatalf("unexpected vegetais schema %+v", vegetais)
	}
	idade := s.Properties["idade"].Value
	if !idade.Type.Is("integer") || *idade.Min != 0 || idade.Max != nil {
		t.Fatalf("unexpected idade schema %+v", idade)
	}
	altura := s.Properties["altura"].Value
	if !altura.Type.Is("number") || *altura.Min != 0 || altura.Max != nil {
		t.Fatalf("unexpected altura schema %+v", altura)
	}
	transporte := s.Properties["transporte"].Value
	if !transporte.Type.Is("integer") || *transporte.Min != 0 || *transporte.Max != 1 {
		t.Fatalf("unexpected transporte schema %+v", transporte)
	}
	if transporte.Description != "0=Sim, 1=Não" {
		t.Fatalf("unexpected transporte description %q", transporte.Description)
	}
	if _, ok := s.Properties["imc"].Value.Extensions[openapi.ExtensionUnknown]; !ok {
		t.Fatalf("expected unknown feature marker on imc")
	}
}

func TestRequestValidator(t *testing.T) {
	v, err := openapi.NewRequestValidator(buildForm(t, "peso", "vegetais", "fumante"))
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	ok := map[string]any{"peso": float64(80), "vegetais": float64(2), "fumante": float64(1), "extra": "ignored"}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	bad := map[string]any{"peso": 80.5, "vegetais": float64(9), "fumante": "talvez"}
	err = v.Validate(bad)
	var verr *openapi.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, path := range []string{"/peso", "/vegetais", "/fumante"} {
		if len(verr.Paths[path]) == 0 {
			t.Fatalf("expected violation at %s, got %v", path, verr.Paths)
		}
	}

	err = v.Validate(map[string]any{"peso": float64(80), "vegetais": float64(1)})
	if !errors.As(err, &verr) || len(verr.Paths["/fumante"]) == 0 {
		t.Fatalf("expected missing fumante violation, got %v", err)
	}
}

func TestDocument_RejectsEmptyForm(t *testing.T) {
	if _, err := openapi.Document(context.Background(), model.FormModel{}); err == nil {
		t.Fatalf("expected error for empty form")
	}
}
