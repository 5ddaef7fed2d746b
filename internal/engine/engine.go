// Package engine runs the classification pipeline: fallback-chain text
// preparation, artifact invocation, and aggregation into the final
// prediction record. One Engine serves the whole process; it holds no
// mutable state, so concurrent calls are safe as long as the artifact's
// read path is.
package engine

import (
	"strings"

	"github.com/crimson-sun/smsguard/internal/engine/artifact"
	"github.com/crimson-sun/smsguard/internal/engine/textproc"
	"github.com/crimson-sun/smsguard/internal/model"
)

// fraudLabels are the classes counted as fraudulent. Matching is
// case-insensitive and exact; the legacy numeric "1" label is not honored.
var fraudLabels = map[string]bool{
	"spam":     true,
	"smishing": true,
}

// Engine classifies messages through the resolver → adapter pipeline.
type Engine struct {
	resolver *textproc.Resolver
	adapter  *artifact.Adapter
}

// New creates an Engine over the given resolver and model adapter.
func New(resolver *textproc.Resolver, adapter *artifact.Adapter) *Engine {
	return &Engine{resolver: resolver, adapter: adapter}
}

// Classify runs one raw message through the pipeline. The only failure
// source is the artifact boundary; input resolution never fails. Errors are
// *artifact.PredictionError and are the caller's to surface — no retries.
func (e *Engine) Classify(rawText string) (model.Prediction, error) {
	processed := e.resolver.ResolveInput(rawText)

	label, err := e.adapter.PredictLabel(processed)
	if err != nil {
		return model.Prediction{}, err
	}

	dist, err := e.adapter.Probabilities(processed, label)
	if err != nil {
		return model.Prediction{}, err
	}

	probs := make(map[string]float64, len(dist.Labels))
	var confidence float64
	for i, lbl := range dist.Labels {
		probs[lbl] = dist.Values[i]
		if dist.Values[i] > confidence {
			confidence = dist.Values[i]
		}
	}

	return model.Prediction{
		Label:         label,
		Confidence:    confidence,
		Probabilities: probs,
		IsFraud:       fraudLabels[strings.ToLower(label)],
	}, nil
}

// ClassifyBatch classifies each message independently. The returned slice
// matches the input in length and order; a failing item becomes an error
// entry and never affects its neighbors.
func (e *Engine) ClassifyBatch(messages []string) []model.BatchItem {
	items := make([]model.BatchItem, len(messages))
	for i, msg := range messages {
		items[i].Message = msg
		pred, err := e.Classify(msg)
		if err != nil {
			items[i].Err = err
			continue
		}
		items[i].Result = &pred
	}
	return items
}

// Healthy reports whether the classifier artifact is loaded and serving.
func (e *Engine) Healthy() bool {
	return e != nil && e.adapter != nil
}
