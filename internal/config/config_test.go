package config

import (
	"os"
	"testing"
)

var allVars = []string{
	"SMSGUARD_MODEL_PATH", "SMSGUARD_VOCAB_PATH", "SMSGUARD_LABELS_PATH",
	"SMSGUARD_ONNX_LIB_PATH", "SMSGUARD_LISTEN_ADDR", "SMSGUARD_MAX_BATCH",
	"SMSGUARD_LOG_LEVEL", "SMSGUARD_LOG_JSON",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Artifact.ModelPath != "models/spam_detector.onnx" {
		t.Errorf("unexpected default model path %q", cfg.Artifact.ModelPath)
	}
	if cfg.Artifact.LibraryPath != "" {
		t.Errorf("expected empty library path, got %q", cfg.Artifact.LibraryPath)
	}
	if cfg.Server.ListenAddr != ":8000" {
		t.Errorf("expected default listen addr ':8000', got %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.MaxBatch != 256 {
		t.Errorf("expected default max batch 256, got %d", cfg.Server.MaxBatch)
	}
	if cfg.Log.Level != "info" || cfg.Log.JSON {
		t.Errorf("unexpected default log config %+v", cfg.Log)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMSGUARD_MODEL_PATH", "/opt/models/v2.onnx")
	t.Setenv("SMSGUARD_LISTEN_ADDR", ":9100")
	t.Setenv("SMSGUARD_MAX_BATCH", "32")
	t.Setenv("SMSGUARD_LOG_JSON", "true")

	cfg := Load()

	if cfg.Artifact.ModelPath != "/opt/models/v2.onnx" {
		t.Errorf("model path override not applied: %q", cfg.Artifact.ModelPath)
	}
	if cfg.Server.ListenAddr != ":9100" {
		t.Errorf("listen addr override not applied: %q", cfg.Server.ListenAddr)
	}
	if cfg.Server.MaxBatch != 32 {
		t.Errorf("max batch override not applied: %d", cfg.Server.MaxBatch)
	}
	if !cfg.Log.JSON {
		t.Error("log json override not applied")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SMSGUARD_MAX_BATCH", "not-a-number")

	if got := Load().Server.MaxBatch; got != 256 {
		t.Errorf("invalid max batch should fall back to 256, got %d", got)
	}

	t.Setenv("SMSGUARD_MAX_BATCH", "-5")
	if got := Load().Server.MaxBatch; got != 256 {
		t.Errorf("non-positive max batch should fall back to 256, got %d", got)
	}
}
