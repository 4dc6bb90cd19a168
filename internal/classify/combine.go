package classify

import (
	"math"
	"strings"

	"vegly/internal/core"
)

const (
	// KeywordConfidence is the fixed confidence of any keyword verdict.
	KeywordConfidence = 0.95

	// KeywordDecisive is the confidence at which the keyword tier
	// short-circuits the chain.
	KeywordDecisive = 0.9

	relevanceFloor   = 0.3
	decisiveMass     = 0.5
	ragConfidenceCap = 0.85

	weightKeyword = 0.4
	weightRAG     = 0.3
	weightLLM     = 0.3

	defaultLLMConfidence = 0.7
)

type weightedTier struct {
	tier   core.TierResult
	weight float64
}

// Combine merges the three tier opinions with fixed weights. Tiers without
// a verdict drop out and the division renormalizes the remaining weights,
// so one decided tier carries the verdict alone.
func Combine(keyword, rag, llmTier core.TierResult) core.TierResult {
	all := []weightedTier{
		{keyword, weightKeyword},
		{rag, weightRAG},
		{llmTier, weightLLM},
	}

	var valid []weightedTier
	for _, wt := range all {
		if wt.tier.IsVegetarian != nil {
			valid = append(valid, wt)
		}
	}

	if len(valid) == 0 {
		return core.TierResult{
			Confidence: 0.0,
			Reasoning:  "Unable to classify",
			Method:     core.MethodCombined,
		}
	}

	var weightedSum, totalWeight float64
	for _, wt := range valid {
		vote := 0.0
		if *wt.tier.IsVegetarian {
			vote = 1.0
		}
		weightedSum += vote * wt.tier.Confidence * wt.weight
		totalWeight += wt.tier.Confidence * wt.weight
	}

	if totalWeight == 0 {
		return valid[0].tier
	}

	vegProbability := weightedSum / totalWeight

	var reasons []string
	for _, wt := range valid {
		if wt.tier.Reasoning != "" {
			reasons = append(reasons, wt.tier.Reasoning)
		}
	}
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}

	return core.TierResult{
		IsVegetarian: core.BoolPtr(vegProbability > 0.5),
		Confidence:   round3(math.Abs(vegProbability-0.5) * 2),
		Reasoning:    strings.Join(reasons, "; "),
		Method:       core.MethodCombined,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
