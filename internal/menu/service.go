package menu

import (
	"context"
	"log/slog"

	"vegly/internal/classify"
	"vegly/internal/config"
	"vegly/internal/core"
	"vegly/internal/logger"
)

// Scratch is transient per-request memory released after every run, such
// as the embedding cache warmed while retrieving evidence.
type Scratch interface {
	Clear()
}

// Service classifies whole menus. With batching enabled it prescreens
// every item through the cheap tiers first and groups the survivors into
// as few LLM calls as possible.
type Service struct {
	engine  *classify.Engine
	scratch Scratch
	llm     config.LLM
	cfg     config.Classify
	log     *slog.Logger
}

// New builds a menu service. scratch may be nil.
func New(engine *classify.Engine, scratch Scratch, llmCfg config.LLM, classifyCfg config.Classify) *Service {
	return &Service{
		engine:  engine,
		scratch: scratch,
		llm:     llmCfg,
		cfg:     classifyCfg,
		log:     logger.Get(),
	}
}

// ClassifyItems classifies every item and buckets the results by
// confidence. AllItems follows the input order under both strategies.
func (s *Service) ClassifyItems(ctx context.Context, items []core.MenuItem, requestID string) core.ClassifyResult {
	s.log.Info("Classifying menu",
		"request_id", requestID,
		"items", len(items),
		"batch", s.llm.BatchEnabled,
		"batch_size", s.llm.BatchSize)

	var result core.ClassifyResult
	if s.llm.BatchEnabled {
		result = s.classifyBatched(ctx, items)
	} else {
		result = s.classifySequential(ctx, items)
	}

	if s.scratch != nil {
		s.scratch.Clear()
	}

	s.log.Info("Menu classified",
		"request_id", requestID,
		"vegetarian", len(result.VegetarianItems),
		"non_vegetarian", len(result.NonVegetarianItems),
		"uncertain", len(result.UncertainItems))
	return result
}

func (s *Service) classifySequential(ctx context.Context, items []core.MenuItem) core.ClassifyResult {
	result := emptyResult(len(items))

	for i, item := range items {
		c := s.engine.ClassifySingle(ctx, item.Name)
		classified := core.ClassifiedItem{
			Name:        item.Name,
			Price:       item.Price,
			Confidence:  c.Confidence,
			Reasoning:   c.Reasoning,
			Evidence:    c.Evidence,
			SourceImage: item.SourceImage,
			Method:      c.Method,
		}
		result.AllItems[i] = s.detail(classified, c.IsVegetarian, c.RelatedIngredients, c.Category, c.FallbackChain)
		s.bucket(&result, classified, c.IsVegetarian)
	}

	return result
}

// pendingItem is an input that survived the keyword and RAG prescreens
// and is waiting on the batch LLM.
type pendingItem struct {
	index   int
	item    core.MenuItem
	hits    []core.RAGHit
	rag     core.TierResult
	related []string
}

func (s *Service) classifyBatched(ctx context.Context, items []core.MenuItem) core.ClassifyResult {
	result := emptyResult(len(items))
	var pending []pendingItem

	for i, item := range items {
		keyword := s.engine.Keyword(item.Name)
		if keyword.Confidence >= classify.KeywordDecisive {
			classified := core.ClassifiedItem{
				Name:        item.Name,
				Price:       item.Price,
				Confidence:  keyword.Confidence,
				Reasoning:   keyword.Reasoning,
				Evidence:    []string{},
				SourceImage: item.SourceImage,
				Method:      core.MethodKeyword,
			}
			chain := []string{classify.ChainEntry(core.MethodKeyword, keyword.Confidence)}
			result.AllItems[i] = s.detail(classified, keyword.IsVegetarian, []string{}, "", chain)
			bucketDecided(&result, classified, *keyword.IsVegetarian)
			continue
		}

		hits := s.engine.Retrieve(ctx, item.Name)
		rag := s.engine.ScoreEvidence(hits)
		related := classify.IngredientNames(hits)

		if rag.IsVegetarian != nil && rag.Confidence >= s.cfg.ConfidenceThreshold {
			classified := core.ClassifiedItem{
				Name:        item.Name,
				Price:       item.Price,
				Confidence:  rag.Confidence,
				Reasoning:   rag.Reasoning,
				Evidence:    classify.TopDocuments(hits, 3),
				SourceImage: item.SourceImage,
				Method:      core.MethodRAG,
			}
			chain := []string{
				classify.ChainEntry(core.MethodKeyword, keyword.Confidence),
				classify.ChainEntry(core.MethodRAG, rag.Confidence),
			}
			// A decisive score implies at least one scoring hit.
			result.AllItems[i] = s.detail(classified, rag.IsVegetarian, related, hits[0].Metadata.Category, chain)
			bucketDecided(&result, classified, *rag.IsVegetarian)
			continue
		}

		pending = append(pending, pendingItem{index: i, item: item, hits: hits, rag: rag, related: related})
	}

	s.log.Info("Prescreen complete", "decided", len(items)-len(pending), "need_llm", len(pending))

	batchSize := s.llm.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	for start := 0; start < len(pending); start += batchSize {
		s.classifyChunk(ctx, pending[start:min(start+batchSize, len(pending))], &result)
	}

	return result
}

// classifyChunk resolves one batch of pending items with a single LLM
// call and combines each returned verdict with its stored RAG tier.
func (s *Service) classifyChunk(ctx context.Context, chunk []pendingItem, result *core.ClassifyResult) {
	names := make([]string, len(chunk))
	for i, p := range chunk {
		names[i] = p.item.Name
	}

	verdicts := s.engine.ClassifyBatch(ctx, names)

	for _, p := range chunk {
		llmTier := verdicts[p.item.Name]
		chain := []string{
			classify.ChainEntry(core.MethodKeyword, 0),
			classify.ChainEntry(core.MethodRAG, p.rag.Confidence),
			classify.ChainEntry(core.MethodLLMBatch, llmTier.Confidence),
		}
		if llmTier.Confidence == 0 || llmTier.IsVegetarian == nil {
			chain = append(chain, "fallback_to_rag")
		}

		combined := classify.Combine(core.TierResult{}, p.rag, llmTier)

		classified := core.ClassifiedItem{
			Name:        p.item.Name,
			Price:       p.item.Price,
			Confidence:  combined.Confidence,
			Reasoning:   combined.Reasoning,
			Evidence:    classify.TopDocuments(p.hits, 3),
			SourceImage: p.item.SourceImage,
			Method:      core.MethodLLMBatch,
		}
		result.AllItems[p.index] = s.detail(classified, combined.IsVegetarian, p.related, "", chain)
		s.bucket(result, classified, combined.IsVegetarian)
	}
}

func (s *Service) detail(item core.ClassifiedItem, verdict *bool, related []string, category string, chain []string) core.DetailedItem {
	return core.DetailedItem{
		ClassifiedItem:     item,
		IsVegetarian:       verdict,
		Currency:           s.cfg.Currency,
		RelatedIngredients: related,
		Category:           category,
		FallbackChain:      chain,
	}
}

// bucket routes an item by verdict and confidence. Items without a
// verdict or below the review threshold go to the uncertain bucket with
// the verdict kept as the suggested classification.
func (s *Service) bucket(result *core.ClassifyResult, item core.ClassifiedItem, verdict *bool) {
	if verdict == nil || item.Confidence < s.cfg.HITLThreshold {
		result.UncertainItems = append(result.UncertainItems, core.UncertainItem{
			ClassifiedItem:          item,
			SuggestedClassification: verdict,
		})
		return
	}
	bucketDecided(result, item, *verdict)
}

func bucketDecided(result *core.ClassifyResult, item core.ClassifiedItem, isVegetarian bool) {
	if isVegetarian {
		result.VegetarianItems = append(result.VegetarianItems, item)
		return
	}
	result.NonVegetarianItems = append(result.NonVegetarianItems, item)
}

func emptyResult(n int) core.ClassifyResult {
	return core.ClassifyResult{
		VegetarianItems:    []core.ClassifiedItem{},
		NonVegetarianItems: []core.ClassifiedItem{},
		UncertainItems:     []core.UncertainItem{},
		AllItems:           make([]core.DetailedItem, n),
	}
}
