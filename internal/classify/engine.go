package classify

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"vegly/internal/config"
	"vegly/internal/core"
	"vegly/internal/llm"
	"vegly/internal/logger"
	"vegly/internal/vectorstore"
)

// Engine implements the tiered classification policy: keyword match first,
// retrieval over the knowledge base second, and the LLM last with the
// retrieved evidence as context.
type Engine struct {
	keywords *KeywordMatcher
	store    vectorstore.Store
	provider llm.Provider
	cfg      config.Classify
	log      *slog.Logger
}

// NewEngine wires the three tiers together.
func NewEngine(keywords *KeywordMatcher, store vectorstore.Store, provider llm.Provider, cfg config.Classify) *Engine {
	return &Engine{
		keywords: keywords,
		store:    store,
		provider: provider,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

// Keyword runs only the keyword tier.
func (e *Engine) Keyword(name string) core.TierResult {
	return e.keywords.Classify(name)
}

// Retrieve fetches evidence for name. Retrieval trouble is logged and
// yields no evidence so the remaining tiers still run.
func (e *Engine) Retrieve(ctx context.Context, name string) []core.RAGHit {
	hits, err := e.store.Search(ctx, name, e.cfg.RAGTopK)
	if err != nil {
		e.log.Warn("Evidence retrieval failed", "name", name, "error", err)
		return nil
	}
	return hits
}

// ScoreEvidence turns retrieved hits into a verdict. Hits below the
// relevance floor are ignored; the winning side must both beat the other
// and carry absolute mass before the tier decides.
func (e *Engine) ScoreEvidence(hits []core.RAGHit) core.TierResult {
	if len(hits) == 0 {
		return core.TierResult{
			Confidence: 0.0,
			Reasoning:  "No relevant evidence found",
			Method:     core.MethodRAG,
		}
	}

	var vegScore, nonVegScore float64
	var reasons []string

	for _, hit := range hits {
		if hit.Relevance < relevanceFloor || hit.Metadata.IsVegetarian == nil {
			continue
		}
		if *hit.Metadata.IsVegetarian {
			vegScore += hit.Relevance
			reasons = append(reasons, hit.Metadata.Name+" (vegetarian)")
		} else {
			nonVegScore += hit.Relevance
			reasons = append(reasons, hit.Metadata.Name+" (non-vegetarian)")
		}
	}

	if len(reasons) > 3 {
		reasons = reasons[:3]
	}

	if vegScore > nonVegScore && vegScore > decisiveMass {
		return core.TierResult{
			IsVegetarian: core.BoolPtr(true),
			Confidence:   math.Min(ragConfidenceCap, vegScore/(vegScore+nonVegScore+0.1)),
			Reasoning:    "Similar to: " + strings.Join(reasons, ", "),
			Method:       core.MethodRAG,
		}
	}
	if nonVegScore > vegScore && nonVegScore > decisiveMass {
		return core.TierResult{
			IsVegetarian: core.BoolPtr(false),
			Confidence:   math.Min(ragConfidenceCap, nonVegScore/(vegScore+nonVegScore+0.1)),
			Reasoning:    "Similar to: " + strings.Join(reasons, ", "),
			Method:       core.MethodRAG,
		}
	}

	return core.TierResult{
		Confidence: 0.3,
		Reasoning:  "Inconclusive RAG evidence",
		Method:     core.MethodRAG,
	}
}

// ClassifySingle walks the full chain for one dish. Each tier's confidence
// is recorded in the fallback chain; a decisive keyword or retrieval
// verdict returns early, everything else falls through to the weighted
// combination.
func (e *Engine) ClassifySingle(ctx context.Context, name string) core.Classification {
	chain := []string{}

	keyword := e.Keyword(name)
	chain = append(chain, ChainEntry(core.MethodKeyword, keyword.Confidence))
	if keyword.Confidence >= KeywordDecisive {
		e.log.Info("Classified dish", "name", name, "method", keyword.Method, "confidence", keyword.Confidence)
		return core.Classification{
			TierResult:         keyword,
			Evidence:           []string{},
			RelatedIngredients: []string{},
			FallbackChain:      chain,
		}
	}

	hits := e.Retrieve(ctx, name)
	rag := e.ScoreEvidence(hits)
	chain = append(chain, ChainEntry(core.MethodRAG, rag.Confidence))

	if rag.IsVegetarian != nil && rag.Confidence >= e.cfg.ConfidenceThreshold {
		e.log.Info("Classified dish", "name", name, "method", rag.Method, "confidence", rag.Confidence)
		return core.Classification{
			TierResult:         rag,
			Evidence:           TopDocuments(hits, 3),
			RelatedIngredients: IngredientNames(hits),
			Category:           firstCategory(hits),
			FallbackChain:      chain,
		}
	}

	llmTier := e.classifyWithLLM(ctx, name, hits)
	chain = append(chain, ChainEntry(core.MethodLLM, llmTier.Confidence))

	llmFailed := llmTier.Confidence == 0 || llmTier.IsVegetarian == nil
	if llmFailed {
		e.log.Warn("LLM tier failed, falling back to retrieval evidence", "name", name)
		chain = append(chain, "fallback_to_rag")
	}

	combined := Combine(keyword, rag, llmTier)
	e.log.Info("Classified dish", "name", name, "method", combined.Method,
		"confidence", combined.Confidence, "chain", strings.Join(chain, " > "))

	return core.Classification{
		TierResult:         combined,
		Evidence:           TopDocuments(hits, 3),
		RelatedIngredients: IngredientNames(hits),
		FallbackChain:      chain,
		LLMFailed:          llmFailed,
	}
}

// ClassifyBatch classifies one chunk of dish names in a single LLM call.
// The returned map has an entry for every input name.
func (e *Engine) ClassifyBatch(ctx context.Context, names []string) map[string]core.TierResult {
	if len(names) == 0 {
		return map[string]core.TierResult{}
	}

	e.log.Info("Batch classification", "items", len(names), "provider", e.provider.Name())

	response, err := e.provider.Generate(ctx, buildBatchPrompt(names), batchSystemPrompt)
	if err != nil {
		e.log.Error("Batch LLM call failed", "error", err, "items", len(names))
		results := make(map[string]core.TierResult, len(names))
		for _, name := range names {
			results[name] = core.TierResult{
				Confidence: 0.0,
				Reasoning:  "Batch LLM error: " + err.Error(),
				Method:     core.MethodLLMBatch,
				LLMError:   err.Error(),
			}
		}
		return results
	}

	results := parseBatchVerdicts(response, names)

	decided := 0
	for _, r := range results {
		if r.IsVegetarian != nil {
			decided++
		}
	}
	e.log.Info("Batch classification complete", "decided", decided, "items", len(names))
	return results
}

func (e *Engine) classifyWithLLM(ctx context.Context, name string, hits []core.RAGHit) core.TierResult {
	e.log.Info("Consulting LLM", "name", name, "provider", e.provider.Name())

	response, err := e.provider.Generate(ctx, buildClassifyPrompt(name, hits), classifySystemPrompt)
	if err != nil {
		e.log.Error("LLM classification failed", "error", err, "name", name, "provider", e.provider.Name())
		return core.TierResult{
			Confidence: 0.0,
			Reasoning:  "LLM error: " + err.Error(),
			Method:     core.MethodLLM,
			LLMError:   err.Error(),
		}
	}

	return parseVerdict(response)
}

// ChainEntry formats one fallback chain element, e.g. "rag:0.42".
func ChainEntry(method string, confidence float64) string {
	return fmt.Sprintf("%s:%.2f", method, confidence)
}

// TopDocuments returns the document text of the first n hits.
func TopDocuments(hits []core.RAGHit, n int) []string {
	docs := make([]string, 0, n)
	for i, hit := range hits {
		if i == n {
			break
		}
		docs = append(docs, hit.Document)
	}
	return docs
}

// IngredientNames collects the ingredient-type hits among the top three.
func IngredientNames(hits []core.RAGHit) []string {
	names := []string{}
	for i, hit := range hits {
		if i == 3 {
			break
		}
		if hit.Metadata.Type == core.TypeIngredient {
			names = append(names, hit.Metadata.Name)
		}
	}
	return names
}

func firstCategory(hits []core.RAGHit) string {
	if len(hits) == 0 {
		return ""
	}
	return hits[0].Metadata.Category
}
