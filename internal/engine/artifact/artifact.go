// Package artifact wraps the pre-trained classifier behind an explicit
// capability surface. Every artifact can predict a label; probability
// vectors and an ordered label set are optional capabilities that the
// Adapter probes once at construction. Capability absence is a modeled
// state, not an error path.
package artifact

// Artifact is the minimal capability a loaded classifier must provide.
type Artifact interface {
	// PredictLabel returns the single best label for the (already
	// normalized, never empty) input text.
	PredictLabel(text string) (string, error)
	// Close releases any resources held by the artifact.
	Close() error
}

// ProbabilityPredictor is the optional probability-vector capability. The
// returned vector is ordered to match the artifact's label set.
type ProbabilityPredictor interface {
	PredictProbabilities(text string) ([]float64, error)
}

// LabelLister is the optional ordered-label-set capability.
type LabelLister interface {
	Labels() []string
}
