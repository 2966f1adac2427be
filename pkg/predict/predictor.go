package predict

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/classifier"
	"github.com/goliatone/go-riskform/pkg/record"
)

// Option customises a Predictor.
type Option func(*Predictor)

// WithLabels overrides the class labels.
func WithLabels(l Labels) Option {
	return func(p *Predictor) {
		p.labels = l
	}
}

// WithLocale selects the class labels for locale.
func WithLocale(locale string) Option {
	return func(p *Predictor) {
		p.labels = LabelsFor(locale)
	}
}

// WithLogger sets the logger used to report failures.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Predictor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Predictor invokes a classifier on one record.
type Predictor struct {
	model  classifier.Classifier
	labels Labels
	logger *zap.Logger
}

// New returns a Predictor for model.
func New(model classifier.Classifier, opts ...Option) *Predictor {
	p := &Predictor{
		model:  model,
		labels: LabelsFor(DefaultLocale),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Labels returns the class labels in use.
func (p *Predictor) Labels() Labels {
	return p.labels
}

// Predict runs the classifier on rec. Every failure, including a panic inside
// the model, comes back as *InferenceError.
func (p *Predictor) Predict(ctx context.Context, rec record.Record) (res Result, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, newInferenceError("context", ctxErr)
	}
	if p.model == nil {
		return Result{}, newInferenceError("model", errors.New("no model loaded"))
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = newInferenceError("panic", fmt.Errorf("%v", r))
		}
		if err != nil {
			p.logger.Warn("prediction failed", zap.Error(err))
		}
	}()

	if namer, ok := p.model.(classifier.FeatureNamer); ok {
		if names := namer.FeatureNames(); len(names) > 0 && !sameColumns(names, rec.Columns()) {
			return Result{}, newInferenceError("columns", fmt.Errorf("record columns %v do not match fitted order %v", rec.Columns(), names))
		}
	}

	row, err := rec.Vector()
	if err != nil {
		return Result{}, newInferenceError("input", err)
	}
	X := [][]float64{row}

	classes, err := p.model.Predict(X)
	if err != nil {
		return Result{}, newInferenceError("predict", err)
	}
	proba, err := p.model.PredictProba(X)
	if err != nil {
		return Result{}, newInferenceError("predict_proba", err)
	}
	if len(classes) != 1 || len(proba) != 1 || len(proba[0]) < 2 {
		return Result{}, newInferenceError("output", fmt.Errorf("unexpected output shape: %d classes, %d probability rows", len(classes), len(proba)))
	}

	class := classes[0]
	return Result{
		Class:       class,
		Probability: proba[0][1],
		Label:       p.labels.For(class),
	}, nil
}

func sameColumns(a, b []string) bool {
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
