package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrArtifactNotFound is returned when the model artifact does not exist.
var ErrArtifactNotFound = errors.New("classifier: model artifact not found")

// KindLogistic is the only supported artifact kind.
const KindLogistic = "logistic"

// artifact mirrors the on-disk document. JSON documents parse through the
// YAML decoder since YAML is a superset of JSON.
type artifact struct {
	Kind         string    `yaml:"kind"`
	FeatureNames []string  `yaml:"feature_names"`
	Weights      yaml.Node `yaml:"weights"`
	Bias         float64   `yaml:"bias"`
	Threshold    *float64  `yaml:"threshold"`
}

// Load reads a model artifact from path.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("classifier: read artifact: %w", err)
	}
	model, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("classifier: %s: %w", path, err)
	}
	return model, nil
}

// Parse decodes an artifact document.
func Parse(data []byte) (Classifier, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("empty artifact")
	}
	var doc artifact
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(doc.Kind)) {
	case "", KindLogistic:
	default:
		return nil, fmt.Errorf("unsupported model kind %q", doc.Kind)
	}

	var (
		model *Logistic
		err   error
	)
	switch doc.Weights.Kind {
	case yaml.SequenceNode:
		var coef []float64
		if err := doc.Weights.Decode(&coef); err != nil {
			return nil, fmt.Errorf("decode weights: %w", err)
		}
		model, err = NewLogistic(doc.FeatureNames, coef, doc.Bias)
	case yaml.MappingNode:
		var weights map[string]float64
		if err := doc.Weights.Decode(&weights); err != nil {
			return nil, fmt.Errorf("decode weights: %w", err)
		}
		model, err = NewLogisticByName(weights, doc.Bias)
		if err == nil && len(doc.FeatureNames) > 0 {
			err = model.Bind(doc.FeatureNames)
		}
	default:
		return nil, errors.New("weights must be a list or a mapping")
	}
	if err != nil {
		return nil, err
	}

	if doc.Threshold != nil {
		if model, err = model.WithThreshold(*doc.Threshold); err != nil {
			return nil, err
		}
	}
	return model, nil
}
