package predictor

import "fmt"

// ArtifactLoadError reports a model artifact that is missing, unreadable or
// not a valid serialized model.
type ArtifactLoadError struct {
	Path string
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	return fmt.Sprintf("load model artifact %q: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error { return e.Err }

// PredictionError reports input the model rejected. Column is empty when the
// problem is not tied to a single column.
type PredictionError struct {
	Column string
	Err    error
}

func (e *PredictionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("predict: %v", e.Err)
	}
	return fmt.Sprintf("predict: column %q: %v", e.Column, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
