package predict

import "fmt"

// InferenceError reports a failed prediction. It is always recoverable: the
// caller shows Error() and keeps serving.
type InferenceError struct {
	Stage string
	Err   error
}

func (e *InferenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("Erro ao fazer a previsão (%s): %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying reason.
func (e *InferenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newInferenceError(stage string, err error) *InferenceError {
	return &InferenceError{Stage: stage, Err: err}
}
