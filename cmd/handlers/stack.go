package handlers

import (
	"context"
	"fmt"

	"vegly/internal/classify"
	"vegly/internal/config"
	"vegly/internal/embedding"
	"vegly/internal/knowledge"
	"vegly/internal/llm"
	"vegly/internal/logger"
	"vegly/internal/menu"
	"vegly/internal/vectorstore"
)

// stack bundles the classification components shared by the CLI commands
// and the HTTP server. The vector store is in-memory, so every process
// indexes the knowledge base once at startup.
type stack struct {
	cfg      *config.Config
	cache    *embedding.Cache
	store    vectorstore.Store
	provider llm.Provider
	engine   *classify.Engine
	service  *menu.Service
}

// buildStack loads configuration, indexes the knowledge base and selects
// an LLM provider. Indexing requires a reachable embedding server.
func buildStack(ctx context.Context) (*stack, error) {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Index the knowledge base
	base := knowledge.Default()
	docs := base.Documents()

	cache := embedding.NewCache(embedding.NewOllamaEngine(cfg.Embedding.BaseURL, cfg.Embedding.Model))
	store := vectorstore.NewMemoryStore(cache)

	fmt.Printf("📚 Indexing knowledge base (%d documents)...\n", len(docs))
	if err := store.Index(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to index knowledge base: %w\n\n"+
			"Indexing needs an embedding server. Make sure Ollama is running at %s\n"+
			"and the model %q is pulled (ollama pull %s).",
			err, cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Model)
	}

	stats := store.Stats()
	fmt.Printf("   ✓ Index ready (%d ingredients, %d dishes)\n", stats.Ingredients, stats.Dishes)
	log.Info("Knowledge base indexed", "documents", stats.TotalDocuments)

	// Select an LLM provider
	provider, err := llm.Select(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to select LLM provider: %w", err)
	}
	fmt.Printf("   ✓ Provider: %s (%s)\n", provider.Name(), provider.Model())

	// Wire the classification engine and menu service
	engine := classify.NewEngine(classify.NewKeywordMatcher(base.Keywords), store, provider, cfg.Classify)
	service := menu.New(engine, cache, cfg.LLM, cfg.Classify)

	return &stack{
		cfg:      cfg,
		cache:    cache,
		store:    store,
		provider: provider,
		engine:   engine,
		service:  service,
	}, nil
}
