package classifier_test

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-riskform/pkg/classifier"
)

func TestLoad_OrderedArtifactExposesNames(t *testing.T) {
	model, err := classifier.Load(filepath.Join("testdata", "ordered.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	namer, ok := model.(classifier.FeatureNamer)
	if !ok {
		t.Fatalf("expected model to report feature names")
	}
	if diff := cmp.Diff([]string{"peso", "altura", "historico"}, namer.FeatureNames()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	// 100kg, 1.70m, family history: z = 16 - 10.2 + 1.2 - 4.5 = 2.5
	proba, err := model.PredictProba([][]float64{{100, 1.70, 1}})
	if err != nil {
		t.Fatalf("predict proba: %v", err)
	}
	want := 1 / (1 + math.Exp(-2.5))
	if math.Abs(proba[0][1]-want) > 1e-9 || math.Abs(proba[0][0]+proba[0][1]-1) > 1e-12 {
		t.Fatalf("unexpected probabilities %v", proba[0])
	}
	classes, err := model.Predict([][]float64{{100, 1.70, 1}, {60, 1.80, 0}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if diff := cmp.Diff([]int{1, 0}, classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_NamedWeightsNeedBinding(t *testing.T) {
	model, err := classifier.Load(filepath.Join("testdata", "named.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := model.PredictProba([][]float64{{1, 2, 3}}); err == nil {
		t.Fatalf("expected unbound model to refuse prediction")
	}
	if names := model.(classifier.FeatureNamer).FeatureNames(); names != nil {
		t.Fatalf("expected no names before binding, got %v", names)
	}

	binder := model.(classifier.Binder)
	if err := binder.Bind([]string{"peso", "altura"}); err == nil {
		t.Fatalf("expected error binding fewer columns than weights")
	}
	if err := binder.Bind([]string{"historico", "peso", "altura"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	classes, err := model.Predict([][]float64{{1, 100, 1.70}})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	// p = sigmoid(2.5) ~ 0.92 clears the 0.6 threshold
	if classes[0] != 1 {
		t.Fatalf("expected class 1, got %d", classes[0])
	}
}

func TestLoad_AnonymousWeightsBindByPosition(t *testing.T) {
	model, err := classifier.Load(filepath.Join("testdata", "anonymous.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := model.(classifier.Binder).Bind([]string{"a", "b"}); err == nil {
		t.Fatalf("expected column count mismatch")
	}
	if err := model.(classifier.Binder).Bind([]string{"a", "b", "c"}); err != nil {
		t.Fatalf("bind: %v", err)
	}
}

func TestLoad_MissingArtifact(t *testing.T) {
	_, err := classifier.Load(filepath.Join(t.TempDir(), "obesity_model.yaml"))
	if !errors.Is(err, classifier.ErrArtifactNotFound) {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":          "   ",
		"kind":           "kind: forest\nweights: [1]\n",
		"no weights":     "kind: logistic\nbias: 1\n",
		"name mismatch":  "feature_names: [a]\nweights: [1, 2]\n",
		"bad threshold":  "weights: [1]\nthreshold: 1.5\n",
		"scalar weights": "weights: 3\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := classifier.Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error for %q", doc)
			}
		})
	}
}

func TestPredictProba_WidthMismatch(t *testing.T) {
	model, err := classifier.NewLogistic(nil, []float64{1, 2}, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = model.PredictProba([][]float64{{1}})
	if err == nil || !strings.Contains(err.Error(), "expecting 2 features") {
		t.Fatalf("expected width error, got %v", err)
	}
}
