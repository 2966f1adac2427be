package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func noop(*bytes.Buffer, FieldView, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("test", Descriptor{Renderer: noop, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor(" TEST ")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets[0] = "/mutated.css"

	original, _ := reg.Descriptor("test")
	if original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister("number", Descriptor{Renderer: noop, Stylesheets: []string{"/shared.css", "/number.css"}})
	reg.MustRegister("radio", Descriptor{Renderer: noop, Stylesheets: []string{"/shared.css"}})

	got := reg.Stylesheets([]string{"number", "radio", "missing"})
	if diff := cmp.Diff([]string{"/shared.css", "/number.css"}, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterValidation(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected name error")
	}
	if err := reg.Register("x", Descriptor{}); err == nil {
		t.Fatalf("expected renderer error")
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	want := []string{NameNumber, NameRadio, NameSelect, NameText}
	if diff := cmp.Diff(want, NewDefaultRegistry().Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
