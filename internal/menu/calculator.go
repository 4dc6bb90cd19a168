package menu

import (
	"math"
	"strings"

	"vegly/internal/core"
	"vegly/internal/logger"
)

// TotalResult is the summed price of a vegetarian bucket.
type TotalResult struct {
	TotalSum  float64 `json:"total_sum"`
	ItemCount int     `json:"item_count"`
}

// RecomputeResult is the vegetarian bucket after human corrections.
type RecomputeResult struct {
	VegetarianItems    []core.ClassifiedItem `json:"vegetarian_items"`
	TotalSum           float64               `json:"total_sum"`
	CorrectionsApplied int                   `json:"corrections_applied"`
}

// Total sums the prices of the given items, rounded to cents. Items with
// a zero or negative price are skipped and not counted.
func Total(items []core.ClassifiedItem) TotalResult {
	var total float64
	count := 0
	for _, item := range items {
		if item.Price > 0 {
			total += item.Price
			count++
		}
	}

	logger.Info("Calculated vegetarian total", "total", round2(total), "items", count)

	return TotalResult{TotalSum: round2(total), ItemCount: count}
}

// Recompute reapplies human labels over a classified menu. Corrections
// match by case-insensitive name; a corrected vegetarian item comes back
// with full confidence, items without a correction keep their original
// classification.
func Recompute(items []core.DetailedItem, corrections []core.Correction) RecomputeResult {
	labels := make(map[string]bool, len(corrections))
	for _, c := range corrections {
		labels[strings.ToLower(c.Name)] = c.IsVegetarian
	}

	vegetarian := []core.ClassifiedItem{}
	for _, item := range items {
		if label, ok := labels[strings.ToLower(item.Name)]; ok {
			if label {
				vegetarian = append(vegetarian, core.ClassifiedItem{
					Name:       item.Name,
					Price:      item.Price,
					Confidence: 1.0,
					Reasoning:  "Human verified",
				})
			}
			continue
		}
		if item.IsVegetarian != nil && *item.IsVegetarian {
			vegetarian = append(vegetarian, item.ClassifiedItem)
		}
	}

	var total float64
	for _, item := range vegetarian {
		total += item.Price
	}

	logger.Info("Recomputed vegetarian total", "corrections", len(corrections), "total", round2(total))

	return RecomputeResult{
		VegetarianItems:    vegetarian,
		TotalSum:           round2(total),
		CorrectionsApplied: len(corrections),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
