package record_test

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/features"
	"github.com/goliatone/go-riskform/pkg/form"
	"github.com/goliatone/go-riskform/pkg/model"
	"github.com/goliatone/go-riskform/pkg/record"
	"github.com/goliatone/go-riskform/pkg/schema"
)

func collect(t *testing.T, s schema.Schema, raw map[string]string) *form.State {
	t.Helper()
	fm, err := model.Build(s, features.Default())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return form.Collect(fm, raw)
}

func TestAssemble_FallbackSchemaWithMinimumInputs(t *testing.T) {
	catalog := features.Default()
	s := schema.MustNew(catalog.Keys(), schema.SourceCatalog)

	rec, err := record.NewAssembler(record.PolicyPassThrough).Assemble(s, collect(t, s, nil))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if diff := cmp.Diff(catalog.Keys(), rec.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	got, err := rec.Vector()
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	want := []float64{1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("vector mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_ColumnOrderFollowsSchema(t *testing.T) {
	keys := features.Default().Keys()
	raw := map[string]string{"idade": "50", "peso": "90", "altura": "1.8", "transporte": "Não"}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		perm := append([]string(nil), keys...)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })
		s := schema.MustNew(perm, schema.SourceModel)

		rec, err := record.NewAssembler("").Assemble(s, collect(t, s, raw))
		if err != nil {
			t.Fatalf("assemble: %v", err)
		}
		if diff := cmp.Diff(perm, rec.Columns()); diff != "" {
			t.Fatalf("columns mismatch (-want +got):\n%s", diff)
		}
		if v, _ := rec.Get("transporte"); v.Interface() != 1 {
			t.Fatalf("expected transporte code 1, got %#v", v)
		}
	}
}

func TestAssemble_MissingValue(t *testing.T) {
	s := schema.MustNew([]string{"idade", "peso"}, schema.SourceModel)
	state := form.NewState()
	state.Set("idade", form.Int(20))
	state.Set("extra", form.Int(1))

	_, err := record.NewAssembler("").Assemble(s, state)
	if !errors.Is(err, record.ErrMissingValue) || !strings.Contains(err.Error(), "peso") {
		t.Fatalf("expected missing peso, got %v", err)
	}
}

func TestAssemble_UnknownFeaturePolicies(t *testing.T) {
	s := schema.MustNew([]string{"idade", "cintura"}, schema.SourceModel)
	state := collect(t, s, map[string]string{"idade": "20", "cintura": "80.5"})

	rec, err := record.NewAssembler(record.PolicyPassThrough).Assemble(s, state)
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if v, _ := rec.Get("cintura"); v.Kind() != form.KindOpaque {
		t.Fatalf("expected opaque value, got %#v", v)
	}
	vec, err := rec.Vector()
	if err != nil || vec[1] != 80.5 {
		t.Fatalf("expected numeric text to convert, got %v %v", vec, err)
	}

	if _, err := record.NewAssembler(record.PolicyReject).Assemble(s, state); !errors.Is(err, record.ErrUnknownFeature) {
		t.Fatalf("expected ErrUnknownFeature, got %v", err)
	}
}

func TestRecord_VectorRejectsText(t *testing.T) {
	s := schema.MustNew([]string{"cintura"}, schema.SourceModel)
	rec, err := record.NewAssembler("").Assemble(s, collect(t, s, map[string]string{"cintura": "larga"}))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if _, err := rec.Vector(); err == nil || !strings.Contains(err.Error(), "could not convert string to float") {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestAssemble_InvalidState(t *testing.T) {
	s := schema.MustNew([]string{"vegetais"}, schema.SourceModel)
	state := collect(t, s, map[string]string{"vegetais": "9"})
	if _, err := record.NewAssembler("").Assemble(s, state); !errors.Is(err, record.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]record.Policy{"": record.PolicyPassThrough, "Reject": record.PolicyReject, "pass-through": record.PolicyPassThrough} {
		got, err := record.ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := record.ParsePolicy("drop"); err == nil {
		t.Fatalf("expected error")
	}
}
