// Package classifier loads the fitted binary classifier used for inference.
// Only inference is supported; fitting happens elsewhere and is shipped as a
// small YAML or JSON artifact.
package classifier

import "github.com/goliatone/go-riskform/pkg/schema"

// Classifier is a fitted binary model.
type Classifier interface {
	// Predict returns the class (0 or 1) for each row.
	Predict(X [][]float64) ([]int, error)
	// PredictProba returns [p(class 0), p(class 1)] for each row.
	PredictProba(X [][]float64) ([][]float64, error)
}

// FeatureNamer is implemented by models that remember the column order they
// were fitted on.
type FeatureNamer = schema.FeatureNamer

// Binder is implemented by models whose coefficients are keyed by name and
// must be aligned to a column order before use.
type Binder interface {
	Bind(columns []string) error
}

// Func adapts plain functions into a Classifier. Handy for tests and for
// wrapping remote models.
type Func struct {
	PredictFunc      func(X [][]float64) ([]int, error)
	PredictProbaFunc func(X [][]float64) ([][]float64, error)
	Names            []string
}

// Predict calls PredictFunc.
func (f Func) Predict(X [][]float64) ([]int, error) {
	return f.PredictFunc(X)
}

// PredictProba calls PredictProbaFunc.
func (f Func) PredictProba(X [][]float64) ([][]float64, error) {
	return f.PredictProbaFunc(X)
}

// FeatureNames returns Names.
func (f Func) FeatureNames() []string {
	return f.Names
}
