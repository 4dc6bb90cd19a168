package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"vegly/internal/core"
	"vegly/internal/embedding"
	"vegly/internal/logger"
)

// Store indexes knowledge base documents and answers nearest-neighbour
// queries over them.
type Store interface {
	// Index embeds and stores the documents. A populated store treats a
	// second call as a no-op so startup can index unconditionally.
	Index(ctx context.Context, docs []core.Document) error

	// Search embeds the query and returns the topK closest documents,
	// ordered by ascending cosine distance.
	Search(ctx context.Context, query string, topK int) ([]core.RAGHit, error)

	// Stats summarizes the indexed collection.
	Stats() Stats
}

// Stats summarizes an indexed collection.
type Stats struct {
	TotalDocuments int `json:"total_documents"`
	Ingredients    int `json:"ingredients"`
	Dishes         int `json:"dishes"`
}

// MemoryStore is an in-process cosine index. The knowledge base is small
// enough that a linear scan per query outperforms anything fancier.
type MemoryStore struct {
	engine embedding.Engine
	mu     sync.RWMutex
	docs   []indexedDoc
}

type indexedDoc struct {
	doc    core.Document
	vector []float32
}

// NewMemoryStore creates an empty store backed by the given engine.
func NewMemoryStore(engine embedding.Engine) *MemoryStore {
	return &MemoryStore{engine: engine}
}

// Index embeds and stores docs. Documents without a vegetarian label are
// skipped; evidence scoring cannot use them.
func (m *MemoryStore) Index(ctx context.Context, docs []core.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.docs) > 0 {
		return nil
	}

	log := logger.Get()
	keep := make([]core.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Meta.IsVegetarian == nil {
			log.Warn("Skipping unlabeled document", "id", doc.ID)
			continue
		}
		keep = append(keep, doc)
	}
	if len(keep) == 0 {
		return fmt.Errorf("no labeled documents to index")
	}

	texts := make([]string, len(keep))
	for i, doc := range keep {
		texts[i] = doc.Text
	}

	vectors, err := m.engine.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	m.docs = make([]indexedDoc, len(keep))
	for i, doc := range keep {
		m.docs[i] = indexedDoc{doc: doc, vector: vectors[i]}
	}

	log.Info("Indexed knowledge base", "documents", len(m.docs), "engine", m.engine.Name())
	return nil
}

// Search returns the topK documents closest to the query by cosine
// distance. Ties break on document ID so results are deterministic.
func (m *MemoryStore) Search(ctx context.Context, query string, topK int) ([]core.RAGHit, error) {
	if topK <= 0 {
		topK = 5
	}

	queryVec, err := m.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]core.RAGHit, 0, len(m.docs))
	for _, entry := range m.docs {
		distance := 1 - cosineSimilarity(queryVec, entry.vector)
		hits = append(hits, core.RAGHit{
			ID:        entry.doc.ID,
			Document:  entry.doc.Text,
			Metadata:  entry.doc.Meta,
			Distance:  distance,
			Relevance: clampUnit(1 - distance),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// Stats reports document counts by type.
func (m *MemoryStore) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := Stats{TotalDocuments: len(m.docs)}
	for _, entry := range m.docs {
		switch entry.doc.Meta.Type {
		case core.TypeIngredient:
			stats.Ingredients++
		case core.TypeDish:
			stats.Dishes++
		}
	}
	return stats
}

// cosineSimilarity is the cosine of the angle between a and b, or 0 when
// either vector has no magnitude.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
