package model

// Prediction is the outcome of classifying a single message.
type Prediction struct {
	Label         string             // predicted class (ham, spam, smishing, ...)
	Confidence    float64            // max probability, or the nominal value when probabilities are unavailable
	Probabilities map[string]float64 // per-label probabilities
	IsFraud       bool               // true for spam and smishing
}

// BatchItem is one positional entry of a batch classification: either a
// successful prediction or the error that item produced. Exactly one of
// Result/Err is set.
type BatchItem struct {
	Message string      // the raw input, retained for error reporting
	Result  *Prediction // set on success
	Err     error       // set on failure
}

// Failed reports whether this item produced an error instead of a prediction.
func (it BatchItem) Failed() bool { return it.Err != nil }
