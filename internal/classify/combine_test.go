package classify

import (
	"strings"
	"testing"

	"vegly/internal/core"
)

func tier(isVeg *bool, confidence float64, reasoning, method string) core.TierResult {
	return core.TierResult{IsVegetarian: isVeg, Confidence: confidence, Reasoning: reasoning, Method: method}
}

func TestCombineAllUndecided(t *testing.T) {
	result := Combine(
		tier(nil, 0.0, "No keyword match", core.MethodKeyword),
		tier(nil, 0.3, "Inconclusive RAG evidence", core.MethodRAG),
		tier(nil, 0.0, "LLM error: timeout", core.MethodLLM),
	)

	if result.IsVegetarian != nil {
		t.Errorf("Expected no verdict, got %+v", result)
	}
	if result.Confidence != 0.0 {
		t.Errorf("Expected zero confidence, got %f", result.Confidence)
	}
	if result.Reasoning != "Unable to classify" {
		t.Errorf("Expected 'Unable to classify', got %q", result.Reasoning)
	}
	if result.Method != core.MethodCombined {
		t.Errorf("Expected combined method, got %q", result.Method)
	}
}

func TestCombineUnanimousIsFullyConfident(t *testing.T) {
	result := Combine(
		tier(core.BoolPtr(true), 0.95, "Contains vegetarian indicator: 'veggie'", core.MethodKeyword),
		tier(core.BoolPtr(true), 0.8, "Similar to: veggie burger (vegetarian)", core.MethodRAG),
		tier(core.BoolPtr(true), 0.9, "All ingredients are plants", core.MethodLLM),
	)

	if result.IsVegetarian == nil || !*result.IsVegetarian {
		t.Fatalf("Expected vegetarian verdict, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Unanimous agreement should give confidence 1.0, got %f", result.Confidence)
	}
	if strings.Count(result.Reasoning, ";") != 1 {
		t.Errorf("Expected exactly two joined reasons, got %q", result.Reasoning)
	}
}

func TestCombineConflictWeighted(t *testing.T) {
	result := Combine(
		tier(core.BoolPtr(true), 0.95, "keyword says veg", core.MethodKeyword),
		tier(nil, 0.3, "", core.MethodRAG),
		tier(core.BoolPtr(false), 0.9, "llm says meat", core.MethodLLM),
	)

	// p = 0.95*0.4 / (0.95*0.4 + 0.9*0.3) = 0.38/0.65, just above 0.5.
	if result.IsVegetarian == nil || !*result.IsVegetarian {
		t.Fatalf("Keyword weight should edge out the LLM here, got %+v", result)
	}
	if result.Confidence != 0.169 {
		t.Errorf("Expected confidence 0.169, got %f", result.Confidence)
	}
}

func TestCombineSingleDecidedTierCarriesVerdict(t *testing.T) {
	result := Combine(
		tier(nil, 0.0, "No keyword match", core.MethodKeyword),
		tier(nil, 0.0, "No relevant evidence found", core.MethodRAG),
		tier(core.BoolPtr(false), 0.8, "Contains fish sauce", core.MethodLLM),
	)

	if result.IsVegetarian == nil || *result.IsVegetarian {
		t.Fatalf("Expected non-vegetarian verdict, got %+v", result)
	}
	if result.Confidence != 1.0 {
		t.Errorf("A lone decided tier should carry full confidence, got %f", result.Confidence)
	}
}

func TestCombineZeroWeightReturnsFirstValidTier(t *testing.T) {
	llmTier := tier(core.BoolPtr(false), 0.0, "zero confidence verdict", core.MethodLLM)
	result := Combine(
		tier(nil, 0.0, "", core.MethodKeyword),
		tier(nil, 0.3, "", core.MethodRAG),
		llmTier,
	)

	if result.Method != core.MethodLLM {
		t.Errorf("Expected the first valid tier back unchanged, got %+v", result)
	}
	if result.IsVegetarian == nil || *result.IsVegetarian {
		t.Errorf("Expected the tier's own verdict, got %+v", result)
	}
}

func TestCombineExactTieIsNonVegetarian(t *testing.T) {
	// 0.3*0.4 == 0.4*0.3, so the probability lands exactly on 0.5.
	result := Combine(
		tier(core.BoolPtr(true), 0.3, "weak veg", core.MethodKeyword),
		tier(nil, 0.0, "", core.MethodRAG),
		tier(core.BoolPtr(false), 0.4, "weak meat", core.MethodLLM),
	)

	if result.IsVegetarian == nil || *result.IsVegetarian {
		t.Fatalf("A tie should not classify vegetarian, got %+v", result)
	}
	if result.Confidence != 0.0 {
		t.Errorf("A tie should have zero confidence, got %f", result.Confidence)
	}
}

func TestCombineConfidenceTracksDisagreement(t *testing.T) {
	keyword := tier(core.BoolPtr(true), 0.95, "", core.MethodKeyword)
	rag := tier(nil, 0.0, "", core.MethodRAG)

	prev := 2.0
	for _, llmConf := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		result := Combine(keyword, rag, tier(core.BoolPtr(false), llmConf, "", core.MethodLLM))

		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("Confidence out of range at llm confidence %f: %f", llmConf, result.Confidence)
		}

		// Recover the vegetarian probability from verdict and confidence.
		p := 0.5 - result.Confidence/2
		if result.IsVegetarian != nil && *result.IsVegetarian {
			p = 0.5 + result.Confidence/2
		}
		if p >= prev {
			t.Errorf("Stronger disagreement at llm confidence %f should lower the probability, got %f (prev %f)", llmConf, p, prev)
		}
		prev = p
	}
}
