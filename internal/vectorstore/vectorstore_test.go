package vectorstore

import (
	"context"
	"fmt"
	"testing"

	"vegly/internal/core"
)

// stubEngine returns fixed vectors per text so distances are known exactly.
type stubEngine struct {
	vectors map[string][]float32
}

func (s *stubEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, ok := s.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no stub vector for %q", text)
	}
	return vec, nil
}

func (s *stubEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *stubEngine) Dimensions() int { return 3 }

func (s *stubEngine) Name() string { return "stub" }

func labeledDoc(id, text string, veg bool) core.Document {
	return core.Document{
		ID:   id,
		Text: text,
		Meta: core.DocMeta{Name: text, IsVegetarian: core.BoolPtr(veg), Type: core.TypeDish},
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"close":    {1, 0, 0},
		"diagonal": {1, 1, 0},
		"far":      {0, 1, 0},
		"query":    {1, 0, 0},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	docs := []core.Document{
		labeledDoc("dish_far", "far", false),
		labeledDoc("dish_close", "close", true),
		labeledDoc("dish_diagonal", "diagonal", true),
	}
	if err := store.Index(ctx, docs); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	hits, err := store.Search(ctx, "query", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "dish_close" || hits[1].ID != "dish_diagonal" {
		t.Errorf("Expected close then diagonal, got %s then %s", hits[0].ID, hits[1].ID)
	}
	if hits[0].Distance > hits[1].Distance {
		t.Error("Hits should be ordered by ascending distance")
	}
	if hits[0].Relevance != 1.0 {
		t.Errorf("Identical vectors should score relevance 1.0, got %f", hits[0].Relevance)
	}
}

func TestSearchRelevanceClampedToUnitRange(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"opposite": {1, 0, 0},
		"query":    {-1, 0, 0},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	if err := store.Index(ctx, []core.Document{labeledDoc("dish_opposite", "opposite", true)}); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	hits, err := store.Search(ctx, "query", 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].Distance != 2.0 {
		t.Errorf("Opposed vectors should have cosine distance 2, got %f", hits[0].Distance)
	}
	if hits[0].Relevance != 0.0 {
		t.Errorf("Relevance should clamp to 0, got %f", hits[0].Relevance)
	}
}

func TestSearchTieBreaksOnID(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"same":  {1, 0, 0},
		"query": {1, 0, 0},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	docs := []core.Document{
		labeledDoc("dish_b", "same", true),
		labeledDoc("dish_a", "same", true),
	}
	if err := store.Index(ctx, docs); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	hits, err := store.Search(ctx, "query", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if hits[0].ID != "dish_a" || hits[1].ID != "dish_b" {
		t.Errorf("Equal distances should order by ID, got %s then %s", hits[0].ID, hits[1].ID)
	}
}

func TestIndexSkipsUnlabeledDocuments(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"labeled": {1, 0, 0},
		"query":   {1, 0, 0},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	docs := []core.Document{
		labeledDoc("dish_labeled", "labeled", true),
		{ID: "dish_mystery", Text: "mystery", Meta: core.DocMeta{Name: "mystery", Type: core.TypeDish}},
	}
	if err := store.Index(ctx, docs); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	if got := store.Stats().TotalDocuments; got != 1 {
		t.Errorf("Expected 1 indexed document, got %d", got)
	}
	hits, err := store.Search(ctx, "query", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, hit := range hits {
		if hit.ID == "dish_mystery" {
			t.Error("Unlabeled document should not be searchable")
		}
	}
}

func TestIndexAllUnlabeledFails(t *testing.T) {
	store := NewMemoryStore(&stubEngine{vectors: map[string][]float32{}})
	docs := []core.Document{
		{ID: "dish_mystery", Text: "mystery", Meta: core.DocMeta{Name: "mystery", Type: core.TypeDish}},
	}
	if err := store.Index(context.Background(), docs); err == nil {
		t.Error("Expected error when no document carries a label")
	}
}

func TestIndexIsIdempotent(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {0, 1, 0},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	if err := store.Index(ctx, []core.Document{labeledDoc("dish_first", "first", true)}); err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if err := store.Index(ctx, []core.Document{labeledDoc("dish_second", "second", false)}); err != nil {
		t.Fatalf("Second Index failed: %v", err)
	}

	stats := store.Stats()
	if stats.TotalDocuments != 1 {
		t.Errorf("Re-indexing a populated store should be a no-op, got %d documents", stats.TotalDocuments)
	}
}

func TestStatsCountsByType(t *testing.T) {
	engine := &stubEngine{vectors: map[string][]float32{
		"tofu":  {1, 0, 0},
		"pizza": {0, 1, 0},
		"salad": {0, 0, 1},
	}}
	store := NewMemoryStore(engine)
	ctx := context.Background()

	docs := []core.Document{
		{ID: "ing_tofu", Text: "tofu", Meta: core.DocMeta{Name: "tofu", IsVegetarian: core.BoolPtr(true), Type: core.TypeIngredient}},
		labeledDoc("dish_pizza", "pizza", true),
		labeledDoc("dish_salad", "salad", true),
	}
	if err := store.Index(ctx, docs); err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	stats := store.Stats()
	if stats.TotalDocuments != 3 || stats.Ingredients != 1 || stats.Dishes != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	if got := cosineSimilarity([]float32{0, 0, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("Zero vector should have similarity 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("Mismatched lengths should have similarity 0, got %f", got)
	}
	if got := cosineSimilarity([]float32{2, 0, 0}, []float32{7, 0, 0}); got != 1 {
		t.Errorf("Parallel vectors should have similarity 1, got %f", got)
	}
}
