package engine

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/crimson-sun/smsguard/internal/engine/artifact"
	"github.com/crimson-sun/smsguard/internal/engine/textproc"
)

// fakeModel implements all artifact capabilities with canned keyword rules
// and records the inputs it receives.
type fakeModel struct {
	inputs  []string
	failOn  string // inputs containing this substring fail
	noProba bool
}

func (f *fakeModel) PredictLabel(text string) (string, error) {
	f.inputs = append(f.inputs, text)
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return "", fmt.Errorf("model rejected %q", text)
	}
	switch {
	case strings.Contains(text, "verify"):
		return "smishing", nil
	case strings.Contains(text, "prize"):
		return "spam", nil
	default:
		return "ham", nil
	}
}

func (f *fakeModel) Close() error { return nil }

func (f *fakeModel) PredictProbabilities(text string) ([]float64, error) {
	if f.noProba {
		return nil, errors.New("no probability head")
	}
	switch {
	case strings.Contains(text, "verify"):
		return []float64{0.05, 0.15, 0.80}, nil
	case strings.Contains(text, "prize"):
		return []float64{0.10, 0.85, 0.05}, nil
	default:
		return []float64{0.90, 0.06, 0.04}, nil
	}
}

func (f *fakeModel) Labels() []string { return []string{"ham", "spam", "smishing"} }

// bareModel lacks the optional capabilities entirely.
type bareModel struct{}

func (bareModel) PredictLabel(string) (string, error) { return "ham", nil }
func (bareModel) Close() error                        { return nil }

func testEngine(t *testing.T, art artifact.Artifact) *Engine {
	t.Helper()
	resolver := textproc.NewResolver(textproc.NewFilter(textproc.LetterRuns))
	return New(resolver, artifact.NewAdapter(art))
}

func TestClassify_Ham(t *testing.T) {
	eng := testEngine(t, &fakeModel{})
	pred, err := eng.Classify("Hey, are you free for lunch tomorrow?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != "ham" {
		t.Errorf("label = %q, want ham", pred.Label)
	}
	if pred.IsFraud {
		t.Error("ham must not be flagged as fraud")
	}
	if math.Abs(pred.Confidence-0.90) > 1e-12 {
		t.Errorf("confidence = %v, want 0.90", pred.Confidence)
	}
}

func TestClassify_Spam(t *testing.T) {
	eng := testEngine(t, &fakeModel{})
	pred, err := eng.Classify("Congratulations! You've won a prize! Click here to claim now!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != "spam" || !pred.IsFraud {
		t.Errorf("got label=%q fraud=%v, want spam/true", pred.Label, pred.IsFraud)
	}
}

// The URL must be stripped before the artifact ever sees the text.
func TestClassify_SmishingURLStripped(t *testing.T) {
	m := &fakeModel{}
	eng := testEngine(t, m)
	pred, err := eng.Classify("URGENT: Your account will be suspended. Verify at https://fake-bank.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != "smishing" || !pred.IsFraud {
		t.Errorf("got label=%q fraud=%v, want smishing/true", pred.Label, pred.IsFraud)
	}
	for _, in := range m.inputs {
		if strings.Contains(in, "fake-bank.com") || strings.Contains(in, "http") {
			t.Errorf("artifact saw unstripped URL in %q", in)
		}
	}
}

// Confidence must equal the maximum of the probability mapping on the
// probability-capable path.
func TestClassify_ConfidenceIsMaxProbability(t *testing.T) {
	eng := testEngine(t, &fakeModel{})
	for _, msg := range []string{"lunch tomorrow", "claim your prize", "verify account details"} {
		pred, err := eng.Classify(msg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var max float64
		for _, p := range pred.Probabilities {
			if p > max {
				max = p
			}
		}
		if pred.Confidence != max {
			t.Errorf("%q: confidence %v != max probability %v", msg, pred.Confidence, max)
		}
		if pred.Confidence < 0 || pred.Confidence > 1 {
			t.Errorf("%q: confidence %v out of [0,1]", msg, pred.Confidence)
		}
	}
}

func TestClassify_EmptyInputUsesPlaceholder(t *testing.T) {
	m := &fakeModel{}
	eng := testEngine(t, m)
	if _, err := eng.Classify(""); err != nil {
		t.Fatalf("empty input must still classify: %v", err)
	}
	if len(m.inputs) == 0 || m.inputs[0] != textproc.PlaceholderToken {
		t.Errorf("artifact received %v, want placeholder %q", m.inputs, textproc.PlaceholderToken)
	}
}

func TestClassify_NominalConfidenceWithoutProbabilities(t *testing.T) {
	eng := testEngine(t, bareModel{})
	pred, err := eng.Classify("lunch tomorrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Confidence != artifact.NominalConfidence {
		t.Errorf("confidence = %v, want nominal %v", pred.Confidence, artifact.NominalConfidence)
	}
	if len(pred.Probabilities) != 1 {
		t.Fatalf("expected single-entry mapping, got %v", pred.Probabilities)
	}
	if p, ok := pred.Probabilities[pred.Label]; !ok || p != artifact.NominalConfidence {
		t.Errorf("mapping must be keyed by the predicted label: %v", pred.Probabilities)
	}
}

func TestClassify_ProbabilityFailureDegrades(t *testing.T) {
	eng := testEngine(t, &fakeModel{noProba: true})
	pred, err := eng.Classify("lunch tomorrow")
	if err != nil {
		t.Fatalf("probability failure must degrade, not error: %v", err)
	}
	if pred.Confidence != artifact.NominalConfidence {
		t.Errorf("confidence = %v, want nominal", pred.Confidence)
	}
}

func TestClassify_PredictionErrorSurfaces(t *testing.T) {
	eng := testEngine(t, &fakeModel{failOn: "verify"})
	_, err := eng.Classify("please verify your account")
	var perr *artifact.PredictionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *artifact.PredictionError, got %T: %v", err, err)
	}
}

func TestIsFraud_LabelVocabulary(t *testing.T) {
	tests := []struct {
		label string
		fraud bool
	}{
		{"ham", false},
		{"spam", true},
		{"smishing", true},
		{"SPAM", true},
		{"Smishing", true},
		{"1", false}, // legacy numeric labels are not honored
		{"phishing", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := fraudLabels[strings.ToLower(tt.label)]; got != tt.fraud {
			t.Errorf("fraud(%q) = %v, want %v", tt.label, got, tt.fraud)
		}
	}
}

func TestClassifyBatch_Isolation(t *testing.T) {
	eng := testEngine(t, &fakeModel{failOn: "poison"})
	msgs := []string{
		"lunch tomorrow sounds great",
		"poison pill message",
		"claim your prize today",
	}
	items := eng.ClassifyBatch(msgs)

	if len(items) != len(msgs) {
		t.Fatalf("got %d items, want %d", len(items), len(msgs))
	}
	for i, it := range items {
		if it.Message != msgs[i] {
			t.Errorf("item %d message = %q, want %q (order must be preserved)", i, it.Message, msgs[i])
		}
	}
	if items[0].Failed() || items[0].Result.Label != "ham" {
		t.Errorf("item 0 should be a ham prediction: %+v", items[0])
	}
	if !items[1].Failed() {
		t.Error("item 1 should have failed")
	}
	if items[2].Failed() || items[2].Result.Label != "spam" {
		t.Errorf("item 2 should be a spam prediction despite item 1 failing: %+v", items[2])
	}
}

func TestClassifyBatch_Empty(t *testing.T) {
	eng := testEngine(t, &fakeModel{})
	if items := eng.ClassifyBatch(nil); len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
