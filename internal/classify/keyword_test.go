package classify

import (
	"strings"
	"testing"

	"vegly/internal/knowledge"
)

func defaultMatcher() *KeywordMatcher {
	return NewKeywordMatcher(knowledge.Default().Keywords)
}

func TestKeywordMatcherVerdicts(t *testing.T) {
	matcher := defaultMatcher()

	tests := []struct {
		dish       string
		wantVeg    string // "veg", "nonveg", "none"
		wantReason string
	}{
		{"Veggie Burger", "veg", "veggie"},
		{"Plant-Based Bowl", "veg", "plant-based"},
		{"Samosas (Veg)", "veg", "marker"},
		{"Buddha Bowl 🌱", "veg", "marker"},
		{"Grilled Chicken", "nonveg", "chicken"},
		{"Caesar Salad", "nonveg", "caesar"},
		{"Ham Sandwich", "nonveg", "ham"},
		{"Hammock Grill Platter", "none", "No keyword match"},
		{"Veganism Lecture Lunch", "none", "No keyword match"},
		{"Tofu Pad Thai", "none", "No keyword match"},
		{"Mushroom Risotto", "none", "No keyword match"},
	}

	for _, tt := range tests {
		result := matcher.Classify(tt.dish)
		switch tt.wantVeg {
		case "veg":
			if result.IsVegetarian == nil || !*result.IsVegetarian {
				t.Errorf("%q: expected vegetarian verdict, got %+v", tt.dish, result)
			}
		case "nonveg":
			if result.IsVegetarian == nil || *result.IsVegetarian {
				t.Errorf("%q: expected non-vegetarian verdict, got %+v", tt.dish, result)
			}
		case "none":
			if result.IsVegetarian != nil {
				t.Errorf("%q: expected no verdict, got %+v", tt.dish, result)
			}
			if result.Confidence != 0.0 {
				t.Errorf("%q: expected zero confidence, got %f", tt.dish, result.Confidence)
			}
		}
		if !strings.Contains(result.Reasoning, tt.wantReason) {
			t.Errorf("%q: expected reasoning mentioning %q, got %q", tt.dish, tt.wantReason, result.Reasoning)
		}
	}
}

func TestKeywordMarkerBeatsNegative(t *testing.T) {
	result := defaultMatcher().Classify("Chicken Tenders (v)")

	if result.IsVegetarian == nil || !*result.IsVegetarian {
		t.Fatalf("Expected marker to override meat word, got %+v", result)
	}
	if result.Confidence != KeywordConfidence {
		t.Errorf("Expected confidence %v, got %f", KeywordConfidence, result.Confidence)
	}
	if !strings.Contains(result.Reasoning, "marker") {
		t.Errorf("Expected marker reasoning, got %q", result.Reasoning)
	}
}

func TestKeywordPositiveBeatsNegative(t *testing.T) {
	result := defaultMatcher().Classify("Veggie Chicken Tenders")

	if result.IsVegetarian == nil || !*result.IsVegetarian {
		t.Fatalf("Expected positive indicator to win, got %+v", result)
	}
	if !strings.Contains(result.Reasoning, "veggie") {
		t.Errorf("Expected veggie reasoning, got %q", result.Reasoning)
	}
}

func TestKeywordMatchingIsCaseInsensitive(t *testing.T) {
	matcher := defaultMatcher()

	upper := matcher.Classify("BEEF WELLINGTON")
	if upper.IsVegetarian == nil || *upper.IsVegetarian {
		t.Errorf("Expected BEEF to match negative keyword, got %+v", upper)
	}

	mixed := matcher.Classify("Garden Platter (V)")
	if mixed.IsVegetarian == nil || !*mixed.IsVegetarian {
		t.Errorf("Expected (V) marker to match, got %+v", mixed)
	}
}

func TestKeywordMethodIsAlwaysKeyword(t *testing.T) {
	matcher := defaultMatcher()
	for _, dish := range []string{"Veggie Burger", "Beef Stew", "Tiramisu"} {
		if result := matcher.Classify(dish); result.Method != "keyword" {
			t.Errorf("%q: expected method keyword, got %q", dish, result.Method)
		}
	}
}
