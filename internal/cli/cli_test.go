package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	riskform "github.com/goliatone/go-riskform"
	"github.com/goliatone/go-riskform/pkg/openapi"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
	"github.com/goliatone/go-riskform/pkg/schema"
	"github.com/goliatone/go-riskform/pkg/testsupport"
)

var catalogOrder = []string{
	"vegetais", "ref_principais", "agua", "atv_fisica", "atv_eletronica",
	"idade", "peso", "altura", "historico", "al_calorico", "ctrl_caloria",
	"entre_ref", "fumante", "alcool", "transporte", "feminino", "masculino",
}

type scriptedDriver struct {
	inputs  []string
	selects []int
	confirm []bool
	info    []string
	calls   int
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.calls++
	for len(d.inputs) > 0 {
		val := d.inputs[0]
		d.inputs = d.inputs[1:]
		if cfg.Validator != nil && cfg.Validator(val) != nil {
			continue
		}
		return val, nil
	}
	return "", errors.New("no input scripted")
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	d.calls++
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := d.confirm[0]
	d.confirm = d.confirm[1:]
	return val, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	d.calls++
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.info = append(d.info, msg)
	return nil
}

func run(t *testing.T, args []string, opts ...Option) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	opts = append([]Option{WithLogger(zap.NewNop())}, opts...)
	err := Execute(context.Background(), args, &out, &errOut, opts...)
	return out.String(), err
}

func TestAsk_ScriptedSession(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	driver := &scriptedDriver{
		// vegetais, ref_principais, agua, atv_fisica, atv_eletronica, idade, peso, altura
		inputs: []string{"1", "1", "9", "1", "0", "0", "40", "120", "1.6"},
		// historico then the remaining eight binaries
		selects: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
		confirm: []bool{true},
	}

	if _, err := run(t, []string{"ask", "--model", model}, WithPromptDriver(driver)); err != nil {
		t.Fatalf("ask: %v", err)
	}

	joined := strings.Join(driver.info, "\n")
	for _, want := range []string{"Resultado da Previsão:", "A previsão é: Obeso", "Probabilidade de ser Obeso: 0.99"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in output:\n%s", want, joined)
		}
	}
}

func TestAsk_DeclinedConfirmationSkipsPrediction(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	driver := &scriptedDriver{
		inputs:  []string{"1", "1", "1", "0", "0", "30", "70", "1.75"},
		selects: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
		confirm: []bool{false},
	}

	if _, err := run(t, []string{"ask", "--model", model}, WithPromptDriver(driver)); err != nil {
		t.Fatalf("ask: %v", err)
	}
	for _, msg := range driver.info {
		if strings.Contains(msg, "Resultado da Previsão:") {
			t.Fatalf("did not expect a result after declining")
		}
	}
}

func TestAsk_DryRunPrintsAnswers(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	newDriver := func() *scriptedDriver {
		return &scriptedDriver{
			inputs:  []string{"1", "1", "1", "0", "0", "40", "120", "1.6"},
			selects: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
		}
	}

	cases := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"peso":"120"`, `"altura":"1.6"`, `"historico":"1"`}},
		{"pretty", []string{"vegetais: 1\n", "peso: 120\n", "transporte: 0\n"}},
		{"form", []string{"peso=120", "altura=1.6"}},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			driver := newDriver()
			out, err := run(t, []string{"ask", "--model", model, "--dry-run", "--format", tc.format}, WithPromptDriver(driver))
			if err != nil {
				t.Fatalf("ask: %v", err)
			}
			for _, want := range tc.want {
				if !strings.Contains(out, want) {
					t.Fatalf("expected %q in output:\n%s", want, out)
				}
			}
			for _, msg := range driver.info {
				if strings.Contains(msg, "Resultado da Previsão:") {
					t.Fatalf("did not expect a prediction in dry-run mode")
				}
			}
		})
	}
}

func TestAsk_DryRunJSONDecodes(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	driver := &scriptedDriver{
		inputs:  []string{"1", "1", "1", "0", "0", "40", "120", "1.6"},
		selects: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
	}

	out, err := run(t, []string{"ask", "--model", model, "--dry-run"}, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	var answers map[string]string
	if err := json.Unmarshal([]byte(out), &answers); err != nil {
		t.Fatalf("decode answers: %v\n%s", err, out)
	}
	if len(answers) != len(catalogOrder) {
		t.Fatalf("expected %d answers, got %d: %v", len(catalogOrder), len(answers), answers)
	}
	if answers["idade"] != "40" {
		t.Fatalf("expected idade 40, got %q", answers["idade"])
	}
}

func TestAsk_RejectsUnknownFormat(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	driver := &scriptedDriver{}

	_, err := run(t, []string{"ask", "--model", model, "--dry-run", "--format", "xml"}, WithPromptDriver(driver))
	if err == nil || !strings.Contains(err.Error(), "unsupported output format") {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if driver.calls != 0 {
		t.Fatalf("expected no prompts, got %d", driver.calls)
	}
}

func TestAsk_MissingArtifactHalts(t *testing.T) {
	driver := &scriptedDriver{}
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := run(t, []string{"ask", "--model", missing}, WithPromptDriver(driver))
	if !errors.Is(err, riskform.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
	if driver.calls != 0 || len(driver.info) != 0 {
		t.Fatalf("expected no prompts before halting, got %d calls", driver.calls)
	}
}

func TestSchema_JSONAndSidecar(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	sidecar := filepath.Join(t.TempDir(), "obesity_model.features.yaml")

	out, err := run(t, []string{"schema", "--json", "--model", model, "--write-sidecar", sidecar})
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var report schemaReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Source != schema.SourceModel || report.Fallback {
		t.Fatalf("unexpected source %+v", report)
	}
	if diff := cmp.Diff(catalogOrder, report.Features); diff != "" {
		t.Fatalf("feature order mismatch (-want +got):\n%s", diff)
	}

	names, err := schema.LoadSidecar(sidecar)
	if err != nil {
		t.Fatalf("load sidecar: %v", err)
	}
	if diff := cmp.Diff(catalogOrder, names); diff != "" {
		t.Fatalf("sidecar mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_ConfigFileAndFlagPrecedence(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	cfgPath := filepath.Join(t.TempDir(), "riskform.yaml")
	cfg := "model: " + filepath.Join(t.TempDir(), "absent.yaml") + "\nunknown_features: reject\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := run(t, []string{"schema", "--config", cfgPath}); !errors.Is(err, riskform.ErrArtifactNotFound) {
		t.Fatalf("expected config model path to be used, got %v", err)
	}

	out, err := run(t, []string{"schema", "--config", cfgPath, "--model", model})
	if err != nil {
		t.Fatalf("schema with flag override: %v", err)
	}
	if !strings.HasPrefix(out, "source: model") || !strings.Contains(out, " 0  vegetais") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSchema_RejectsBadPolicy(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)
	if _, err := run(t, []string{"schema", "--model", model, "--unknown-features", "drop"}); err == nil {
		t.Fatalf("expected invalid policy error")
	}
}

func TestOpenAPI_PrintsValidDocument(t *testing.T) {
	model := testsupport.WriteArtifact(t, "obesity_model.yaml", testsupport.ObesityArtifact)

	out, err := run(t, []string{"openapi", "--model", model, "--server", "http://localhost:8080"})
	if err != nil {
		t.Fatalf("openapi: %v", err)
	}
	doc, err := openapi.Load(context.Background(), []byte(out))
	if err != nil {
		t.Fatalf("load printed document: %v", err)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "http://localhost:8080" {
		t.Fatalf("unexpected servers %+v", doc.Servers)
	}
}
