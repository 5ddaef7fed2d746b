package artifact

import (
	"fmt"
	"log/slog"
)

// NominalConfidence is the fixed probability reported when the artifact
// lacks a usable probability capability.
const NominalConfidence = 0.8

// Distribution pairs an ordered label set with its probability vector,
// positionally index-aligned. Nominal marks the degraded single-entry
// fallback produced when real probabilities are unavailable.
type Distribution struct {
	Labels  []string
	Values  []float64
	Nominal bool
}

// Adapter exposes a uniform prediction surface over any Artifact. Optional
// capabilities are probed exactly once, here, not per call.
type Adapter struct {
	art    Artifact
	proba  ProbabilityPredictor // nil when the artifact lacks the capability
	lister LabelLister          // nil when the artifact lacks the capability
}

// NewAdapter wraps the artifact and records which optional capabilities it
// supports. Never fails: absence of a capability is a supported state.
func NewAdapter(art Artifact) *Adapter {
	a := &Adapter{art: art}
	a.proba, _ = art.(ProbabilityPredictor)
	a.lister, _ = art.(LabelLister)
	return a
}

// SupportsProbabilities reports whether the artifact can produce a real,
// label-keyed probability distribution. Both optional capabilities are
// required: a vector without an ordered label set cannot be keyed.
func (a *Adapter) SupportsProbabilities() bool {
	return a.proba != nil && a.lister != nil
}

// PredictLabel returns the artifact's label for the input text. Failures
// are wrapped in *PredictionError carrying the original cause.
func (a *Adapter) PredictLabel(text string) (string, error) {
	label, err := a.art.PredictLabel(text)
	if err != nil {
		return "", &PredictionError{Err: err}
	}
	return label, nil
}

// Probabilities returns the distribution for text. predictedLabel keys the
// degraded single-entry distribution used when the capability is absent or
// its invocation fails. A label-set/vector length mismatch is corrupt model
// output and surfaces as *PredictionError instead of degrading.
func (a *Adapter) Probabilities(text, predictedLabel string) (Distribution, error) {
	if !a.SupportsProbabilities() {
		return nominal(predictedLabel), nil
	}

	values, err := a.proba.PredictProbabilities(text)
	if err != nil {
		slog.Warn("probability capability failed, using nominal confidence", "error", err)
		return nominal(predictedLabel), nil
	}

	labels := a.lister.Labels()
	if len(labels) != len(values) {
		return Distribution{}, &PredictionError{
			Err: fmt.Errorf("label set has %d entries, probability vector has %d", len(labels), len(values)),
		}
	}
	return Distribution{Labels: labels, Values: values}, nil
}

// Close releases the underlying artifact.
func (a *Adapter) Close() error { return a.art.Close() }

func nominal(label string) Distribution {
	return Distribution{
		Labels:  []string{label},
		Values:  []float64{NominalConfidence},
		Nominal: true,
	}
}
