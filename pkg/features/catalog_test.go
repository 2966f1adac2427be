package features_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/features"
)

func TestDefault_DeclaredOrder(t *testing.T) {
	want := []string{
		"vegetais", "ref_principais", "agua", "atv_fisica", "atv_eletronica",
		"idade", "peso", "altura",
		"historico", "al_calorico", "ctrl_caloria", "entre_ref", "fumante", "alcool",
		"transporte", "feminino", "masculino",
	}
	if diff := cmp.Diff(want, features.Default().Keys()); diff != "" {
		t.Fatalf("default key order mismatch (-want +got):\n%s", diff)
	}
}

func TestDefault_BinaryLabelsRoundTrip(t *testing.T) {
	catalog := features.Default()

	cases := []struct {
		key   string
		label string
		code  int
	}{
		{"historico", "Sim", 1},
		{"historico", "Não", 0},
		{"alcool", "Sim", 1},
		{"transporte", "Sim", 0},
		{"transporte", "Não", 1},
		{"feminino", "Sim", 1},
		{"feminino", "Não", 0},
		{"masculino", "Sim", 1},
		{"masculino", "Não", 0},
	}

	for _, tc := range cases {
		t.Run(tc.key+"/"+tc.label, func(t *testing.T) {
			desc, ok := catalog.Lookup(tc.key)
			if !ok {
				t.Fatalf("descriptor %q missing", tc.key)
			}
			code, err := desc.CodeFor(tc.label)
			if err != nil {
				t.Fatalf("code for %q: %v", tc.label, err)
			}
			if code != tc.code {
				t.Fatalf("code mismatch: want %d, got %d", tc.code, code)
			}
			label, ok := desc.LabelFor(code)
			if !ok || label != tc.label {
				t.Fatalf("label for %d: want %q, got %q (ok=%v)", code, tc.label, label, ok)
			}
		})
	}
}

func TestDescriptor_CodeForUnknownLabel(t *testing.T) {
	desc, _ := features.Default().Lookup("fumante")
	if _, err := desc.CodeFor("Talvez"); !errors.Is(err, features.ErrUnknownLabel) {
		t.Fatalf("expected ErrUnknownLabel, got %v", err)
	}
}

func TestDescriptor_CheckNumber(t *testing.T) {
	catalog := features.Default()
	vegetais, _ := catalog.Lookup("vegetais")
	altura, _ := catalog.Lookup("altura")
	idade, _ := catalog.Lookup("idade")

	cases := []struct {
		name  string
		desc  features.Descriptor
		value float64
		ok    bool
	}{
		{"within bounds", vegetais, 2, true},
		{"below min", vegetais, 0, false},
		{"above max", vegetais, 4, false},
		{"fraction on integer", vegetais, 1.5, false},
		{"decimal height", altura, 1.75, true},
		{"negative height", altura, -0.1, false},
		{"open upper bound", idade, 130, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.desc.CheckNumber(tc.value)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, features.ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
		})
	}
}

func TestDescriptor_Defaults(t *testing.T) {
	catalog := features.Default()
	want := map[string]float64{
		"vegetais":   1,
		"atv_fisica": 0,
		"altura":     0,
		"historico":  0,
		"transporte": 0,
	}
	for key, value := range want {
		desc, _ := catalog.Lookup(key)
		if got := desc.Default(); got != value {
			t.Fatalf("%s default: want %v, got %v", key, value, got)
		}
	}
}

func TestNewCatalog_RejectsInvalidDescriptors(t *testing.T) {
	yes := features.Option{Label: "Sim", Code: 1}

	cases := map[string][]features.Descriptor{
		"duplicate key": {
			features.Numeric("a", "A", 0, 1),
			features.Numeric("a", "A again", 0, 1),
		},
		"shared code": {
			features.Binary("b", "B", yes, features.Option{Label: "Não", Code: 1}),
		},
		"code outside 0/1": {
			features.Binary("b", "B", yes, features.Option{Label: "Não", Code: 2}),
		},
		"inverted bounds": {
			features.Numeric("n", "N", 3, 1),
		},
		"missing kind": {
			{Key: "x", Question: "X"},
		},
	}

	for name, descriptors := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := features.NewCatalog(descriptors...); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
