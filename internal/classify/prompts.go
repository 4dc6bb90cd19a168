package classify

import (
	"fmt"
	"strings"

	"vegly/internal/core"
)

const classifySystemPrompt = `You are a food classification expert. Your task is to determine if a dish is vegetarian.

A dish is VEGETARIAN if it contains NO:
- Meat (beef, pork, chicken, lamb, duck, etc.)
- Poultry
- Fish or seafood
- Hidden meat products (fish sauce, anchovy paste, gelatin, lard, bone broth)

A dish IS vegetarian if it contains:
- Vegetables, fruits, grains, legumes
- Dairy products (milk, cheese, eggs, butter)
- Plant-based proteins (tofu, tempeh, seitan)

Respond ONLY with valid JSON in this exact format:
{"is_vegetarian": true/false, "confidence": 0.0-1.0, "reasoning": "brief explanation"}`

const batchSystemPrompt = `You are a food classification expert. Classify MULTIPLE dishes as vegetarian or not.

A dish is VEGETARIAN if it contains NO meat, poultry, fish, seafood, or hidden animal products (fish sauce, anchovy paste, gelatin, lard, bone broth).
A dish IS vegetarian if it only contains vegetables, fruits, grains, legumes, dairy, eggs, or plant-based proteins.

You will receive a list of dishes. Respond with a JSON array containing one object per dish in the SAME ORDER.
Each object must have: {"dish": "name", "is_vegetarian": true/false, "confidence": 0.0-1.0, "reasoning": "brief"}

IMPORTANT: Return ONLY valid JSON array, no other text.`

// buildClassifyPrompt asks for one dish, with at most five evidence lines
// from retrieval.
func buildClassifyPrompt(name string, hits []core.RAGHit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify this dish: %q\n\n", name)
	b.WriteString("Related items from knowledge base:\n")
	for i, hit := range hits {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "- %s (vegetarian: %s)\n", hit.Document, labelString(hit.Metadata.IsVegetarian))
	}
	b.WriteString("\nIs this dish vegetarian? Respond with JSON only.")
	return b.String()
}

// buildBatchPrompt asks for all names at once as a numbered list.
func buildBatchPrompt(names []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify these %d dishes as vegetarian or not:\n\n", len(names))
	for i, name := range names {
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
	}
	fmt.Fprintf(&b, "\nReturn a JSON array with %d objects, one for each dish in order.", len(names))
	return b.String()
}

func labelString(isVeg *bool) string {
	switch {
	case isVeg == nil:
		return "unknown"
	case *isVeg:
		return "true"
	default:
		return "false"
	}
}
