package llm

import (
	"context"
	"fmt"

	"vegly/internal/config"
	"vegly/internal/logger"
)

// Provider generates text completions for classification prompts.
type Provider interface {
	// Name identifies the provider family ("ollama", "openai").
	Name() string

	// Model is the model the provider will generate with.
	Model() string

	// Available reports whether the provider can serve requests right now.
	// For local servers this probes the server; for remote APIs it only
	// checks that credentials are configured.
	Available(ctx context.Context) bool

	// Generate returns the raw completion for prompt. systemPrompt may be
	// empty.
	Generate(ctx context.Context, prompt, systemPrompt string) (string, error)
}

// Select picks a usable provider: the configured local server when its
// probe succeeds, then the remote API when a key is present, then the
// local server once more as a last resort.
func Select(ctx context.Context, cfg config.LLM) (Provider, error) {
	log := logger.Get()

	if cfg.Provider == "local" {
		local := NewOllamaProvider(cfg.LocalBaseURL, cfg.LocalModel)
		if local.Available(ctx) {
			log.Info("Using local LLM provider", "model", local.Model())
			return local, nil
		}
		log.Warn("Local LLM server not reachable, trying remote", "base_url", cfg.LocalBaseURL)
	}

	remote := NewOpenAIProvider(cfg.RemoteAPIKey, cfg.RemoteModel)
	if remote.Available(ctx) {
		log.Info("Using remote LLM provider", "model", remote.Model())
		return remote, nil
	}

	local := NewOllamaProvider(cfg.LocalBaseURL, cfg.LocalModel)
	if local.Available(ctx) {
		log.Info("Using local LLM provider", "model", local.Model())
		return local, nil
	}

	return nil, fmt.Errorf("no LLM provider available: start an Ollama server at %s or set OPENAI_API_KEY", cfg.LocalBaseURL)
}
