package core

import "time"

// Classification methods recorded on every verdict.
const (
	MethodKeyword  = "keyword"
	MethodRAG      = "rag"
	MethodLLM      = "llm"
	MethodLLMBatch = "llm_batch"
	MethodCombined = "combined"
)

// Knowledge base document types.
const (
	TypeIngredient = "ingredient"
	TypeDish       = "dish"
)

// MenuItem is a parsed menu entry before classification.
type MenuItem struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	SourceImage int     `json:"source_image"`
}

// TierResult is the verdict of a single classification tier.
// IsVegetarian is nil when the tier could not decide.
type TierResult struct {
	IsVegetarian *bool   `json:"is_vegetarian"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
	Method       string  `json:"method"`
	LLMError     string  `json:"llm_error,omitempty"`
}

// Classification is a dish-level verdict with its supporting provenance.
type Classification struct {
	TierResult
	Evidence           []string `json:"evidence"`
	RelatedIngredients []string `json:"related_ingredients"`
	Category           string   `json:"category,omitempty"`
	FallbackChain      []string `json:"fallback_chain"`
	LLMFailed          bool     `json:"llm_failed,omitempty"`
}

// DocMeta is the metadata stored alongside each knowledge base document.
type DocMeta struct {
	Name         string `json:"name"`
	IsVegetarian *bool  `json:"is_vegetarian"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Notes        string `json:"notes,omitempty"`
}

// Document is an indexable knowledge base entry.
type Document struct {
	ID   string  `json:"id"`
	Text string  `json:"text"`
	Meta DocMeta `json:"metadata"`
}

// RAGHit is one retrieved document with its similarity to the query.
// Distance is cosine distance; Relevance is 1 - distance clamped to [0, 1].
type RAGHit struct {
	ID        string  `json:"id"`
	Document  string  `json:"document"`
	Metadata  DocMeta `json:"metadata"`
	Distance  float64 `json:"distance"`
	Relevance float64 `json:"relevance_score"`
}

// ClassifiedItem is a menu item with a settled verdict. Corrected items
// produced during review carry only name, price, confidence and reasoning.
type ClassifiedItem struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning"`
	Evidence    []string `json:"evidence,omitempty"`
	SourceImage int      `json:"source_image,omitempty"`
	Method      string   `json:"method,omitempty"`
}

// UncertainItem is a menu item routed to human review. The suggested
// classification is the model's best guess and may be nil.
type UncertainItem struct {
	ClassifiedItem
	SuggestedClassification *bool `json:"suggested_classification"`
}

// DetailedItem is the complete per-item record kept for audit and review.
type DetailedItem struct {
	ClassifiedItem
	IsVegetarian       *bool    `json:"is_vegetarian"`
	Currency           string   `json:"currency"`
	RelatedIngredients []string `json:"related_ingredients"`
	Category           string   `json:"category,omitempty"`
	FallbackChain      []string `json:"fallback_chain,omitempty"`
}

// ClassifyResult is the bucketed outcome for one menu.
type ClassifyResult struct {
	VegetarianItems    []ClassifiedItem `json:"vegetarian_items"`
	NonVegetarianItems []ClassifiedItem `json:"non_vegetarian_items"`
	UncertainItems     []UncertainItem  `json:"uncertain_items"`
	AllItems           []DetailedItem   `json:"all_items"`
}

// NeedsReviewResult is the partial outcome held while a request waits on
// human corrections. ConfidentItems carries only the vegetarian bucket,
// matching the partial sum.
type NeedsReviewResult struct {
	ConfidentItems []ClassifiedItem `json:"confident_items"`
	UncertainItems []UncertainItem  `json:"uncertain_items"`
	PartialSum     float64          `json:"partial_sum"`
}

// ReviewRecord is a pending review held until corrections arrive.
type ReviewRecord struct {
	RequestID     string             `json:"request_id"`
	Items         []DetailedItem     `json:"items"`
	PartialResult *NeedsReviewResult `json:"partial_result,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Correction is one human verdict for an uncertain item.
type Correction struct {
	Name         string `json:"name"`
	IsVegetarian bool   `json:"is_vegetarian"`
}

// FeedbackRecord is one logged human correction.
type FeedbackRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	RequestID    string    `json:"request_id"`
	DishName     string    `json:"dish_name"`
	HumanLabel   bool      `json:"human_label"`
	FeedbackType string    `json:"feedback_type"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}
