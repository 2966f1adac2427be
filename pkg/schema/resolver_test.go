package schema

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type namedModel []string

func (m namedModel) FeatureNames() []string { return m }

func TestResolve_PrefersModelNames(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "model.yaml")
	writeFile(t, filepath.Join(dir, "model.features.yaml"), "- c\n- d\n")

	r := NewResolver([]string{"x", "y"}, WithArtifact(artifact))
	s, err := r.Resolve(context.Background(), namedModel{"b", "a"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Source() != SourceModel {
		t.Fatalf("expected model source, got %q", s.Source())
	}
	if diff := cmp.Diff([]string{"b", "a"}, s.Features()); diff != "" {
		t.Fatalf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UsesSidecar(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "model.yaml")
	sidecar := filepath.Join(dir, "model.features.json")
	writeFile(t, sidecar, `{"feature_names": ["idade", "peso", "altura"]}`)

	r := NewResolver([]string{"x"}, WithArtifact(artifact))
	s, err := r.Resolve(context.Background(), struct{}{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Source() != SourceSidecar || s.Location() != sidecar {
		t.Fatalf("unexpected source %q at %q", s.Source(), s.Location())
	}
	if diff := cmp.Diff([]string{"idade", "peso", "altura"}, s.Features()); diff != "" {
		t.Fatalf("features mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_FallsBackToCatalogAndWarns(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := NewResolver([]string{"vegetais", "agua"}, WithLogger(zap.New(core)))

	s, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !s.Fallback() {
		t.Fatalf("expected catalog fallback, got %q", s.Source())
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one warning, got %d", logs.Len())
	}
}

func TestResolve_EmptyModelNamesFallThrough(t *testing.T) {
	r := NewResolver([]string{"a"})
	s, err := r.Resolve(context.Background(), namedModel{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Source() != SourceCatalog {
		t.Fatalf("expected catalog source, got %q", s.Source())
	}
}

func TestResolve_RejectsDuplicateModelNames(t *testing.T) {
	r := NewResolver([]string{"a"})
	if _, err := r.Resolve(context.Background(), namedModel{"a", "a"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, SourceCatalog); err != ErrEmpty {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	if _, err := New([]string{"a", " "}, SourceCatalog); err == nil {
		t.Fatalf("expected empty name error")
	}
	s := MustNew([]string{"a", "b"}, SourceModel)
	if s.Index("b") != 1 || s.Index("z") != -1 || !s.Contains("a") {
		t.Fatalf("unexpected index results")
	}
	if !s.Equal(MustNew([]string{"a", "b"}, SourceCatalog)) {
		t.Fatalf("expected equal schemas")
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.features.yaml")
	if err := WriteSidecar(path, MustNew([]string{"a", "b"}, SourceModel)); err != nil {
		t.Fatalf("write: %v", err)
	}
	names, err := LoadSidecar(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSidecarCandidates(t *testing.T) {
	got := SidecarCandidates("models/obesity.joblib")
	want := []string{
		"models/obesity.features.yaml",
		"models/obesity.features.yml",
		"models/obesity.features.json",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
