package config

import (
	"os"
	"strconv"
)

// Config holds all smsguard configuration.
type Config struct {
	Artifact ArtifactConfig
	Server   ServerConfig
	Log      LogConfig
}

// ArtifactConfig names the files that make up the trained classifier.
type ArtifactConfig struct {
	ModelPath   string
	VocabPath   string
	LabelsPath  string
	LibraryPath string // ONNX Runtime shared library; empty resolves beside the model
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	ListenAddr string
	MaxBatch   int // maximum messages per batch request
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
	JSON  bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Artifact: ArtifactConfig{
			ModelPath:   getenv("SMSGUARD_MODEL_PATH", "models/spam_detector.onnx"),
			VocabPath:   getenv("SMSGUARD_VOCAB_PATH", "models/vocab.txt"),
			LabelsPath:  getenv("SMSGUARD_LABELS_PATH", "models/labels.txt"),
			LibraryPath: os.Getenv("SMSGUARD_ONNX_LIB_PATH"),
		},
		Server: ServerConfig{
			ListenAddr: getenv("SMSGUARD_LISTEN_ADDR", ":8000"),
			MaxBatch:   getenvInt("SMSGUARD_MAX_BATCH", 256),
		},
		Log: LogConfig{
			Level: getenv("SMSGUARD_LOG_LEVEL", "info"),
			JSON:  getenvBool("SMSGUARD_LOG_JSON", false),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
