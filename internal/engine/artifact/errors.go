package artifact

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a missing artifact file at startup. Fatal: the
// service must refuse traffic rather than recover per request.
var ErrNotFound = errors.New("artifact file not found")

// LoadError wraps any non-missing-file failure while loading the artifact.
// Also fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("artifact: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PredictionError wraps a failure of the underlying artifact during
// classification. Surfaced to the caller of a single classification;
// absorbed per item by batch classification. Never fatal to the process.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("artifact: prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }
