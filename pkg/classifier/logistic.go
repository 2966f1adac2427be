package classifier

import (
	"errors"
	"fmt"
	"math"
)

// DefaultThreshold is the positive-class probability cut-off.
const DefaultThreshold = 0.5

var errNotBound = errors.New("logistic: coefficients are keyed by name and not aligned to any column order")

// Logistic is a fitted binary logistic regression.
type Logistic struct {
	names     []string
	coef      []float64
	byName    map[string]float64
	intercept float64
	threshold float64
}

// NewLogistic builds a model from coefficients aligned with names. names may
// be nil when the fitted order was not recorded.
func NewLogistic(names []string, coef []float64, intercept float64) (*Logistic, error) {
	if len(coef) == 0 {
		return nil, errors.New("logistic: no coefficients")
	}
	if len(names) > 0 && len(names) != len(coef) {
		return nil, fmt.Errorf("logistic: %d feature names for %d coefficients", len(names), len(coef))
	}
	return &Logistic{
		names:     append([]string(nil), names...),
		coef:      append([]float64(nil), coef...),
		intercept: intercept,
		threshold: DefaultThreshold,
	}, nil
}

// NewLogisticByName builds a model from named coefficients. The model cannot
// predict until Bind fixes a column order.
func NewLogisticByName(weights map[string]float64, intercept float64) (*Logistic, error) {
	if len(weights) == 0 {
		return nil, errors.New("logistic: no coefficients")
	}
	byName := make(map[string]float64, len(weights))
	for k, v := range weights {
		byName[k] = v
	}
	return &Logistic{byName: byName, intercept: intercept, threshold: DefaultThreshold}, nil
}

// WithThreshold returns a copy using t as the decision threshold.
func (m *Logistic) WithThreshold(t float64) (*Logistic, error) {
	if math.IsNaN(t) || t <= 0 || t >= 1 {
		return nil, fmt.Errorf("logistic: threshold %v outside (0, 1)", t)
	}
	cp := *m
	cp.threshold = t
	return &cp, nil
}

// FeatureNames returns the fitted column order, or nil when unknown.
func (m *Logistic) FeatureNames() []string {
	if len(m.names) == 0 {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Threshold reports the decision threshold.
func (m *Logistic) Threshold() float64 {
	return m.threshold
}

// Bind aligns named coefficients to columns. Every column needs a weight and
// every weight needs a column. Models built from an ordered list only check
// that the names agree.
func (m *Logistic) Bind(columns []string) error {
	if m.byName == nil {
		if len(m.names) == 0 {
			if len(columns) != len(m.coef) {
				return fmt.Errorf("logistic: %d columns for %d coefficients", len(columns), len(m.coef))
			}
			m.names = append([]string(nil), columns...)
			return nil
		}
		if !sameOrder(m.names, columns) {
			return fmt.Errorf("logistic: columns %v differ from fitted order %v", columns, m.names)
		}
		return nil
	}

	coef := make([]float64, len(columns))
	for i, c := range columns {
		w, ok := m.byName[c]
		if !ok {
			return fmt.Errorf("logistic: no coefficient for column %q", c)
		}
		coef[i] = w
	}
	if len(m.byName) != len(columns) {
		return fmt.Errorf("logistic: %d coefficients for %d columns", len(m.byName), len(columns))
	}
	m.coef = coef
	m.names = append([]string(nil), columns...)
	m.byName = nil
	return nil
}

// PredictProba returns [1-p, p] per row where p is the positive-class
// probability.
func (m *Logistic) PredictProba(X [][]float64) ([][]float64, error) {
	if m.byName != nil {
		return nil, errNotBound
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != len(m.coef) {
			return nil, fmt.Errorf("logistic: X has %d features, but the model is expecting %d features as input", len(row), len(m.coef))
		}
		z := m.intercept
		for j, v := range row {
			z += m.coef[j] * v
		}
		p := sigmoid(z)
		out[i] = []float64{1 - p, p}
	}
	return out, nil
}

// Predict thresholds PredictProba.
func (m *Logistic) Predict(X [][]float64) ([]int, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p[1] >= m.threshold {
			out[i] = 1
		}
	}
	return out, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
