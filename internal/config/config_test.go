package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig writes a temp yaml config and returns its path. Pointing
// Load at an explicit file keeps tests independent of any .vegly.yaml in
// the working directory or home directory.
func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vegly.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

// clearAmbientEnv blanks env vars a developer machine may carry, since
// they take precedence over config file values.
func clearAmbientEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("OLLAMA_MODEL", "")
}

func TestLoadDefaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	clearAmbientEnv(t)

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.Provider != "local" {
		t.Errorf("Expected provider local, got %s", cfg.LLM.Provider)
	}
	if cfg.LLM.LocalBaseURL != "http://localhost:11434" {
		t.Errorf("Expected default Ollama URL, got %s", cfg.LLM.LocalBaseURL)
	}
	if cfg.LLM.LocalModel != "llama3.2" {
		t.Errorf("Expected default local model llama3.2, got %s", cfg.LLM.LocalModel)
	}
	if cfg.LLM.RemoteModel != "gpt-4o-mini" {
		t.Errorf("Expected default remote model gpt-4o-mini, got %s", cfg.LLM.RemoteModel)
	}
	if !cfg.LLM.BatchEnabled {
		t.Error("Expected batching enabled by default")
	}
	if cfg.LLM.BatchSize != 8 {
		t.Errorf("Expected batch size 8, got %d", cfg.LLM.BatchSize)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("Expected default embedding model, got %s", cfg.Embedding.Model)
	}
	if cfg.Classify.ConfidenceThreshold != 0.6 {
		t.Errorf("Expected confidence threshold 0.6, got %v", cfg.Classify.ConfidenceThreshold)
	}
	if cfg.Classify.HITLThreshold != 0.4 {
		t.Errorf("Expected HITL threshold 0.4, got %v", cfg.Classify.HITLThreshold)
	}
	if cfg.Classify.RAGTopK != 5 {
		t.Errorf("Expected RAG top-k 5, got %d", cfg.Classify.RAGTopK)
	}
	if cfg.Classify.Currency != "USD" {
		t.Errorf("Expected currency USD, got %s", cfg.Classify.Currency)
	}
	if cfg.Review.FeedbackLog != "data/feedback_log.jsonl" {
		t.Errorf("Expected default feedback log path, got %s", cfg.Review.FeedbackLog)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFile(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	clearAmbientEnv(t)

	path := writeConfig(t, `
llm:
  local_model: mistral
  batch_size: 4
classify:
  confidence_threshold: 0.7
  currency: EUR
server:
  port: 9999
  read_timeout: 45s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.LocalModel != "mistral" {
		t.Errorf("Expected local model mistral, got %s", cfg.LLM.LocalModel)
	}
	if cfg.LLM.BatchSize != 4 {
		t.Errorf("Expected batch size 4, got %d", cfg.LLM.BatchSize)
	}
	if cfg.Classify.ConfidenceThreshold != 0.7 {
		t.Errorf("Expected confidence threshold 0.7, got %v", cfg.Classify.ConfidenceThreshold)
	}
	if cfg.Classify.Currency != "EUR" {
		t.Errorf("Expected currency EUR, got %s", cfg.Classify.Currency)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected port 9999, got %d", cfg.Server.Port)
	}
	if got := cfg.Server.ReadTimeoutDuration(); got != 45*time.Second {
		t.Errorf("Expected read timeout 45s, got %v", got)
	}

	// Unset values keep their defaults
	if cfg.Classify.HITLThreshold != 0.4 {
		t.Errorf("Expected default HITL threshold, got %v", cfg.Classify.HITLThreshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("VEGLY_LOCAL_MODEL", "qwen2.5")
	t.Setenv("VEGLY_FEEDBACK_LOG", "/tmp/fb.jsonl")
	t.Setenv("VEGLY_PORT", "9090")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.LocalModel != "qwen2.5" {
		t.Errorf("Expected local model from env, got %s", cfg.LLM.LocalModel)
	}
	if cfg.Review.FeedbackLog != "/tmp/fb.jsonl" {
		t.Errorf("Expected feedback log from env, got %s", cfg.Review.FeedbackLog)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port from env, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvAliases(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// OLLAMA_HOST is honored when the vegly-specific key is absent
	t.Setenv("VEGLY_LOCAL_BASE_URL", "")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLM.LocalBaseURL != "http://gpu-box:11434" {
		t.Errorf("Expected base URL from OLLAMA_HOST, got %s", cfg.LLM.LocalBaseURL)
	}
}

func TestEmbeddingBaseURLFallsBackToLLM(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	clearAmbientEnv(t)

	path := writeConfig(t, `
llm:
  local_base_url: http://gpu-box:11434
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Embedding.BaseURL != "http://gpu-box:11434" {
		t.Errorf("Expected embedding base URL to follow LLM, got %s", cfg.Embedding.BaseURL)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Load(writeConfig(t, "llm:\n  provider: banana\n"))
	if err == nil {
		t.Fatal("Expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "Unknown LLM provider") {
		t.Errorf("Expected provider error, got: %v", err)
	}
}

func TestLoadRejectsRemoteWithoutKey(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// Clear any ambient key so validation actually fires
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("VEGLY_REMOTE_API_KEY", "")

	_, err := Load(writeConfig(t, "llm:\n  provider: remote\n"))
	if err == nil {
		t.Fatal("Expected error for remote provider without key")
	}
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("Expected API key error, got: %v", err)
	}
}

func TestLoadRejectsOutOfRangeThresholds(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Load(writeConfig(t, "classify:\n  confidence_threshold: 1.5\n"))
	if err == nil {
		t.Fatal("Expected error for out-of-range threshold")
	}
	if !strings.Contains(err.Error(), "confidence_threshold") {
		t.Errorf("Expected threshold error, got: %v", err)
	}
}

func TestLoadRejectsInvalidDuration(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	_, err := Load(writeConfig(t, "server:\n  read_timeout: banana\n"))
	if err == nil {
		t.Fatal("Expected error for invalid duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("Expected duration error, got: %v", err)
	}
}

func TestLoadCachesConfig(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	second, err := Load("")
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}
	if first != second {
		t.Error("Expected second Load to return the cached config")
	}
}

func TestServerTimeoutFallbacks(t *testing.T) {
	s := Server{ReadTimeout: "not-a-duration", WriteTimeout: "", ShutdownTimeout: "2m"}

	if got := s.ReadTimeoutDuration(); got != 30*time.Second {
		t.Errorf("Expected read timeout fallback 30s, got %v", got)
	}
	if got := s.WriteTimeoutDuration(); got != 150*time.Second {
		t.Errorf("Expected write timeout fallback 150s, got %v", got)
	}
	if got := s.ShutdownTimeoutDuration(); got != 2*time.Minute {
		t.Errorf("Expected shutdown timeout 2m, got %v", got)
	}
}
