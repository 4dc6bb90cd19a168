package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vegly/internal/core"

	"github.com/spf13/cobra"
)

// namedVerdict pairs a dish name with its classification for JSON output.
type namedVerdict struct {
	Name string `json:"name"`
	core.Classification
}

// NewClassifyCmd creates the classify command for one-shot dish classification
func NewClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify [dish name...]",
		Short: "Classify dishes from the terminal",
		Long: `Classify dish names through the full tiered pipeline.

Each dish runs through keyword matching and knowledge base retrieval,
and falls through to the LLM with the retrieved evidence as context
when the cheap tiers cannot decide.

Examples:
  # Classify a single dish
  vegly classify "Pad Thai"

  # Classify several dishes at once
  vegly classify "Margherita Pizza" "Beef Pho" "Falafel Wrap"

  # Emit raw verdicts as JSON
  vegly classify --json "Caesar Salad"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassifyDishes(args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw verdicts as JSON")

	return cmd
}

func runClassifyDishes(names []string, asJSON bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Build the classification stack
	st, err := buildStack(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n🔍 Classifying %d dishes...\n\n", len(names))

	verdicts := make([]namedVerdict, 0, len(names))
	for _, name := range names {
		verdicts = append(verdicts, namedVerdict{
			Name:           name,
			Classification: st.engine.ClassifySingle(ctx, name),
		})
	}

	if asJSON {
		out, err := json.MarshalIndent(verdicts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode verdicts: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	// Display results
	veg, nonVeg, uncertain := 0, 0, 0
	for i, v := range verdicts {
		fmt.Printf("[%d] %s\n", i+1, v.Name)
		fmt.Printf("    %s\n", verdictLine(v.TierResult))
		fmt.Printf("    Reasoning: %s\n", v.Reasoning)
		if v.Category != "" {
			fmt.Printf("    Category:  %s\n", v.Category)
		}
		if len(v.RelatedIngredients) > 0 {
			fmt.Printf("    Related:   %s\n", strings.Join(v.RelatedIngredients, ", "))
		}
		for _, doc := range v.Evidence {
			fmt.Printf("      • %s\n", truncate(doc, 100))
		}
		fmt.Printf("    Chain:     %s\n", strings.Join(v.FallbackChain, " > "))
		fmt.Println()

		switch {
		case v.IsVegetarian == nil:
			uncertain++
		case *v.IsVegetarian:
			veg++
		default:
			nonVeg++
		}
	}

	fmt.Println("📊 Summary")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Vegetarian:     %d\n", veg)
	fmt.Printf("Non-vegetarian: %d\n", nonVeg)
	fmt.Printf("Uncertain:      %d\n", uncertain)

	if uncertain > 0 {
		fmt.Println()
		fmt.Printf("💡 Use 'vegly search query <dish>' to inspect the knowledge base evidence\n")
	}

	return nil
}

func verdictLine(r core.TierResult) string {
	switch {
	case r.IsVegetarian == nil:
		return fmt.Sprintf("❓ Uncertain (confidence %.2f)", r.Confidence)
	case *r.IsVegetarian:
		return fmt.Sprintf("✅ Vegetarian (confidence %.2f, %s)", r.Confidence, r.Method)
	default:
		return fmt.Sprintf("❌ Not vegetarian (confidence %.2f, %s)", r.Confidence, r.Method)
	}
}
