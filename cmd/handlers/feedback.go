package handlers

import (
	"fmt"

	"vegly/internal/config"
	"vegly/internal/review"

	"github.com/spf13/cobra"
)

// NewFeedbackCmd creates the parent feedback command with subcommands
func NewFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect collected human corrections",
		Long: `Inspect the append-only feedback log written by the review endpoint.

Every correction a reviewer submits is recorded as one JSONL line. The
log feeds knowledge base curation: dishes that keep getting corrected
are candidates for new entries.

Examples:
  # Show aggregate feedback statistics
  vegly feedback stats`,
	}

	// Add subcommands
	cmd.AddCommand(NewFeedbackStatsCmd())

	return cmd
}

// NewFeedbackStatsCmd creates the stats subcommand
func NewFeedbackStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show feedback log statistics",
		Long:  `Aggregate the feedback log into per-dish label counts and recent corrections`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeedbackStats()
		},
	}
}

func runFeedbackStats() error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	feedback := review.NewFeedbackLog(cfg.Review.FeedbackLog)
	stats := feedback.Stats()

	fmt.Println("📊 Feedback Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Log file:          %s\n", feedback.Path())
	fmt.Printf("Total Corrections: %d\n", stats.TotalCorrections)
	fmt.Printf("Unique Dishes:     %d\n", stats.UniqueDishes)

	if stats.TotalCorrections == 0 {
		fmt.Println("\nNo corrections logged yet.")
		fmt.Println("Corrections are recorded when reviewers submit verdicts via POST /api/review.")
		return nil
	}

	fmt.Println("\n🍽️  Per-dish labels:")
	for name, d := range stats.DishStats {
		fmt.Printf("  • %s: %d vegetarian, %d non-vegetarian\n", name, d.VegCount, d.NonVegCount)
	}

	fmt.Printf("\n🕐 Recent corrections (last %d):\n", len(stats.RecentFeedback))
	for _, r := range stats.RecentFeedback {
		label := "non-vegetarian"
		if r.HumanLabel {
			label = "vegetarian"
		}
		fmt.Printf("  %s  %s marked %s\n", r.Timestamp.Format("2006-01-02 15:04"), r.DishName, label)
	}

	return nil
}
