package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Config names the files that make up a trained classifier artifact.
type Config struct {
	ModelPath  string
	VocabPath  string
	LabelsPath string
	// LibraryPath locates the ONNX Runtime shared library. Empty means
	// libonnxruntime.so next to the model file.
	LibraryPath string
}

// ortEnv guards process-wide ONNX Runtime initialization. Only the first
// call has any effect.
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXArtifact is a trained sequence-classification network served by ONNX
// Runtime: WordPiece token IDs in, per-label logits out. It supports both
// optional capabilities — probabilities (softmax over the logits) and the
// ordered label set (from the labels file shipped with the model). Safe for
// concurrent readers: sessions are read-only after load.
type ONNXArtifact struct {
	session       *ort.DynamicAdvancedSession
	enc           *encoder
	labels        []string
	useTokenTypes bool
	numLabels     int64
}

var (
	_ Artifact             = (*ONNXArtifact)(nil)
	_ ProbabilityPredictor = (*ONNXArtifact)(nil)
	_ LabelLister          = (*ONNXArtifact)(nil)
)

// LoadONNX loads the model, vocabulary, and label files once, validates the
// model's tensor contract, and returns a ready artifact. Missing files yield
// ErrNotFound; everything else yields *LoadError. Both are fatal to startup.
func LoadONNX(cfg Config) (*ONNXArtifact, error) {
	for _, path := range []string{cfg.ModelPath, cfg.VocabPath, cfg.LabelsPath} {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	}

	libPath := cfg.LibraryPath
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(cfg.ModelPath), "libonnxruntime.so")
	}
	if err := initORT(libPath); err != nil {
		return nil, &LoadError{Path: libPath, Err: err}
	}

	enc, err := newEncoder(cfg.VocabPath)
	if err != nil {
		return nil, &LoadError{Path: cfg.VocabPath, Err: err}
	}

	labels, err := loadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, &LoadError{Path: cfg.LabelsPath, Err: err}
	}

	inputNames, useTokenTypes, numLabels, outputName, err := inspectModel(cfg.ModelPath, len(labels))
	if err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputName}, opts)
	if err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}

	return &ONNXArtifact{
		session:       session,
		enc:           enc,
		labels:        labels,
		useTokenTypes: useTokenTypes,
		numLabels:     numLabels,
	}, nil
}

// inspectModel validates the classifier's tensor contract: input_ids and
// attention_mask are required, token_type_ids is tolerated, and the single
// output must be a 2D [batch, labels] tensor whose label axis matches the
// labels file (dynamic axes are resolved from the file).
func inspectModel(modelPath string, labelCount int) (inputNames []string, useTokenTypes bool, numLabels int64, outputName string, err error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, false, 0, "", fmt.Errorf("onnx: failed to read model info: %w", err)
	}

	have := make(map[string]bool, len(inputs))
	for _, inp := range inputs {
		have[inp.Name] = true
	}
	for _, name := range []string{"input_ids", "attention_mask"} {
		if !have[name] {
			return nil, false, 0, "", fmt.Errorf("onnx: model missing required input %q", name)
		}
	}
	inputNames = []string{"input_ids", "attention_mask"}
	if have["token_type_ids"] {
		inputNames = append(inputNames, "token_type_ids")
		useTokenTypes = true
	}

	if len(outputs) == 0 {
		return nil, false, 0, "", fmt.Errorf("onnx: model has no outputs")
	}
	outputName = outputs[0].Name
	dims := outputs[0].Dimensions
	if len(dims) != 2 {
		return nil, false, 0, "", fmt.Errorf("onnx: expected 2D logits tensor, got shape %v", dims)
	}
	numLabels = dims[1]
	if numLabels <= 0 {
		// Dynamic label axis; trust the labels file.
		numLabels = int64(labelCount)
	} else if numLabels != int64(labelCount) {
		return nil, false, 0, "", fmt.Errorf("onnx: model has %d output labels, labels file has %d", numLabels, labelCount)
	}
	return inputNames, useTokenTypes, numLabels, outputName, nil
}

// PredictLabel classifies the text and returns the argmax label.
func (m *ONNXArtifact) PredictLabel(text string) (string, error) {
	logits, err := m.logits(text)
	if err != nil {
		return "", err
	}
	best := 0
	for i := 1; i < len(logits); i++ {
		if logits[i] > logits[best] {
			best = i
		}
	}
	return m.labels[best], nil
}

// PredictProbabilities returns the softmax distribution over the label axis,
// ordered to match Labels.
func (m *ONNXArtifact) PredictProbabilities(text string) ([]float64, error) {
	logits, err := m.logits(text)
	if err != nil {
		return nil, err
	}
	return softmax(logits), nil
}

// Labels returns a copy of the ordered label set.
func (m *ONNXArtifact) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Close releases the ONNX session.
func (m *ONNXArtifact) Close() error {
	return m.session.Destroy()
}

// logits runs a batch-of-one inference and returns the raw logits row.
func (m *ONNXArtifact) logits(text string) ([]float32, error) {
	ids, mask := m.enc.encode(text)
	seqLen := int64(len(ids))
	shape := ort.NewShape(1, seqLen)

	tIDs, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input_ids tensor: %w", err)
	}
	defer tIDs.Destroy()

	tMask, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create attention_mask tensor: %w", err)
	}
	defer tMask.Destroy()

	inputs := []ort.Value{tIDs, tMask}
	if m.useTokenTypes {
		tTypes, err := ort.NewTensor(shape, make([]int64, seqLen))
		if err != nil {
			return nil, fmt.Errorf("onnx: failed to create token_type_ids tensor: %w", err)
		}
		defer tTypes.Destroy()
		inputs = append(inputs, tTypes)
	}

	tOut, err := ort.NewEmptyTensor[float32](ort.NewShape(1, m.numLabels))
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	if err := m.session.Run(inputs, []ort.Value{tOut}); err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	src := tOut.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

// softmax converts logits to probabilities in float64, shifted by the max
// logit for numerical stability.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	max := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > max {
			max = float64(l)
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(float64(l) - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
