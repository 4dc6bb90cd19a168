package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTierResultNilVerdictMarshalsNull(t *testing.T) {
	tier := TierResult{
		IsVegetarian: nil,
		Confidence:   0.0,
		Reasoning:    "No keyword match",
		Method:       MethodKeyword,
	}

	data, err := json.Marshal(tier)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"is_vegetarian":null`) {
		t.Errorf("Expected is_vegetarian to serialize as null, got %s", data)
	}
	if strings.Contains(string(data), "llm_error") {
		t.Errorf("Expected empty llm_error to be omitted, got %s", data)
	}
}

func TestUncertainItemFlattensClassifiedFields(t *testing.T) {
	item := UncertainItem{
		ClassifiedItem: ClassifiedItem{
			Name:       "Chef's Surprise",
			Price:      9.50,
			Confidence: 0.2,
			Reasoning:  "Unable to classify",
			Method:     MethodCombined,
		},
		SuggestedClassification: nil,
	}

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"name":"Chef's Surprise"`) {
		t.Errorf("Expected embedded name at top level, got %s", out)
	}
	if !strings.Contains(out, `"suggested_classification":null`) {
		t.Errorf("Expected null suggested_classification, got %s", out)
	}
}

func TestBoolPtr(t *testing.T) {
	p := BoolPtr(true)
	if p == nil || !*p {
		t.Error("Expected BoolPtr(true) to point at true")
	}
	q := BoolPtr(false)
	if q == nil || *q {
		t.Error("Expected BoolPtr(false) to point at false")
	}
	if p == BoolPtr(true) {
		t.Error("Expected distinct pointers from separate calls")
	}
}
