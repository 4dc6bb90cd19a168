package classify

import (
	"encoding/json"
	"strings"

	"vegly/internal/core"
	"vegly/internal/logger"
)

// llmVerdict is the shape the model is asked to return. Pointer fields
// distinguish an absent key from an explicit null or zero.
type llmVerdict struct {
	Dish         string   `json:"dish"`
	Name         string   `json:"name"`
	IsVegetarian *bool    `json:"is_vegetarian"`
	Confidence   *float64 `json:"confidence"`
	Reasoning    string   `json:"reasoning"`
}

// extractJSON returns the first balanced JSON object or array in s, or ""
// when none closes. Counting bracket depth survives prose and code fences
// around the payload as well as braces inside string values.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// parseVerdict reads a single-dish response. A verdict wrapped in a
// one-element array is tolerated.
func parseVerdict(response string) core.TierResult {
	payload := extractJSON(response)
	if payload == "" {
		return verdictParseFailure(response)
	}

	var v llmVerdict
	if payload[0] == '[' {
		var list []llmVerdict
		if err := json.Unmarshal([]byte(payload), &list); err != nil || len(list) == 0 {
			return verdictParseFailure(response)
		}
		v = list[0]
	} else if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return verdictParseFailure(response)
	}

	return core.TierResult{
		IsVegetarian: v.IsVegetarian,
		Confidence:   confidenceOr(v.Confidence, defaultLLMConfidence),
		Reasoning:    reasoningOr(v.Reasoning, "LLM classification"),
		Method:       core.MethodLLM,
	}
}

func verdictParseFailure(response string) core.TierResult {
	logger.Get().Warn("Failed to parse LLM response", "preview", preview(response))
	return core.TierResult{
		Confidence: 0.0,
		Reasoning:  "Failed to parse LLM response",
		Method:     core.MethodLLM,
	}
}

// parseBatchVerdicts reads a batch response and pairs each element back to
// an input name: by case-insensitive containment in either direction first,
// then by position when that position is still unclaimed. Every input name
// gets an entry; dishes the model skipped come back undecided.
func parseBatchVerdicts(response string, names []string) map[string]core.TierResult {
	results := make(map[string]core.TierResult, len(names))

	var elems []llmVerdict
	parsed := false
	if payload := extractJSON(response); payload != "" && payload[0] == '[' {
		if err := json.Unmarshal([]byte(payload), &elems); err != nil {
			logger.Get().Warn("Failed to parse batch response", "error", err, "preview", preview(response))
		} else {
			parsed = true
		}
	} else {
		logger.Get().Warn("Batch response carried no JSON array", "preview", preview(response))
	}

	for i, elem := range elems {
		tier := core.TierResult{
			IsVegetarian: elem.IsVegetarian,
			Confidence:   confidenceOr(elem.Confidence, defaultLLMConfidence),
			Reasoning:    reasoningOr(elem.Reasoning, "Batch LLM"),
			Method:       core.MethodLLMBatch,
		}

		elemName := elem.Dish
		if elemName == "" {
			elemName = elem.Name
		}

		if target := matchName(elemName, names); target != "" {
			results[target] = tier
			continue
		}
		if i < len(names) {
			if _, taken := results[names[i]]; !taken {
				results[names[i]] = tier
			}
		}
	}

	missing := "Missing from batch response"
	if !parsed {
		missing = "Failed to parse batch response"
	}
	for _, name := range names {
		if _, ok := results[name]; !ok {
			results[name] = core.TierResult{
				Confidence: 0.0,
				Reasoning:  missing,
				Method:     core.MethodLLMBatch,
			}
		}
	}
	return results
}

// matchName finds the first input name containing elemName or contained by
// it, ignoring case.
func matchName(elemName string, names []string) string {
	if elemName == "" {
		return ""
	}
	lower := strings.ToLower(elemName)
	for _, name := range names {
		nameLower := strings.ToLower(name)
		if strings.Contains(lower, nameLower) || strings.Contains(nameLower, lower) {
			return name
		}
	}
	return ""
}

func confidenceOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func reasoningOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
