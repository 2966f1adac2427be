package features_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/features"
)

const flippedTransport = `
features:
  transporte:
    options:
      - label: Sim
        code: 1
      - label: Não
        code: 0
  cintura:
    kind: numeric
    question: Qual a sua circunferência abdominal em cm?
    min: 0
    integer: true
`

func TestOverlay_DeclaresAlternateMapping(t *testing.T) {
	overlay, err := features.ParseOverlay([]byte(flippedTransport), "inline.yaml")
	if err != nil {
		t.Fatalf("parse overlay: %v", err)
	}

	base := features.Default()
	catalog, err := base.Apply(overlay)
	if err != nil {
		t.Fatalf("apply overlay: %v", err)
	}

	desc, _ := catalog.Lookup("transporte")
	if code, err := desc.CodeFor("Sim"); err != nil || code != 1 {
		t.Fatalf("overlay mapping: want Sim=1, got %d (%v)", code, err)
	}
	if desc.Question != "Seu meio de transporte principal envolve caminhada ou bicicleta?" {
		t.Fatalf("question should be kept when the overlay omits it, got %q", desc.Question)
	}

	original, _ := base.Lookup("transporte")
	if code, _ := original.CodeFor("Sim"); code != 0 {
		t.Fatalf("base catalog must not change, got Sim=%d", code)
	}

	keys := catalog.Keys()
	if keys[len(keys)-1] != "cintura" {
		t.Fatalf("expected new feature appended last, got %v", keys)
	}
	if catalog.Len() != base.Len()+1 {
		t.Fatalf("expected %d descriptors, got %d", base.Len()+1, catalog.Len())
	}
}

func TestOverlay_OrderAndJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.json")
	payload := `{"order": ["peso", "altura"], "features": {"peso": {"question": "Peso (kg)"}}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write overlay: %v", err)
	}

	overlay, err := features.LoadOverlayFile(path)
	if err != nil {
		t.Fatalf("load overlay: %v", err)
	}
	catalog, err := features.Default().Apply(overlay)
	if err != nil {
		t.Fatalf("apply overlay: %v", err)
	}

	if diff := cmp.Diff([]string{"peso", "altura", "vegetais"}, catalog.Keys()[:3]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	desc, _ := catalog.Lookup("peso")
	if desc.Question != "Peso (kg)" {
		t.Fatalf("question not overridden, got %q", desc.Question)
	}
}

func TestOverlay_NewFeatureNeedsKind(t *testing.T) {
	overlay, err := features.ParseOverlay([]byte("features:\n  novo:\n    question: Novo?\n"), "bad.yaml")
	if err != nil {
		t.Fatalf("parse overlay: %v", err)
	}
	if _, err := features.Default().Apply(overlay); err == nil {
		t.Fatalf("expected error for kindless new feature")
	}
}

func TestParseOverlay_Empty(t *testing.T) {
	if _, err := features.ParseOverlay([]byte("  \n"), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty overlay")
	}
}
