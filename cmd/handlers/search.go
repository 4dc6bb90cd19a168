package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewSearchCmd creates the parent search command with subcommands
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Semantic search over the knowledge base",
		Long: `Search the ingredient and dish knowledge base by semantic similarity.

Subcommands:
  query - Search the knowledge base by text query
  stats - Show knowledge base statistics

Examples:
  # Search by text
  vegly search query "spicy noodle soup"

  # Show knowledge base stats
  vegly search stats`,
	}

	// Add subcommands
	cmd.AddCommand(NewSearchQueryCmd())
	cmd.AddCommand(NewSearchStatsCmd())

	return cmd
}

// NewSearchQueryCmd creates the query subcommand
func NewSearchQueryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "query [text]",
		Short: "Search the knowledge base by text query",
		Long:  `Search for ingredients and dishes semantically similar to a text query`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchQuery(args, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Maximum number of results")

	return cmd
}

// NewSearchStatsCmd creates the stats subcommand
func NewSearchStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base statistics",
		Long:  `Display statistics about the indexed knowledge base`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearchStats()
		},
	}
}

func runSearchQuery(args []string, limit int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Build the classification stack
	st, err := buildStack(ctx)
	if err != nil {
		return err
	}

	queryText := strings.Join(args, " ")

	fmt.Printf("\n🔍 Searching for: \"%s\" (limit: %d)\n\n", queryText, limit)

	hits, err := st.store.Search(ctx, queryText, limit)
	if err != nil {
		return fmt.Errorf("failed to search: %w", err)
	}

	// Display results
	if len(hits) == 0 {
		fmt.Println("❌ No matching documents found")
		return nil
	}

	fmt.Printf("✨ Found %d matching documents:\n\n", len(hits))

	for i, hit := range hits {
		verdict := "unknown"
		if hit.Metadata.IsVegetarian != nil {
			if *hit.Metadata.IsVegetarian {
				verdict = "vegetarian"
			} else {
				verdict = "non-vegetarian"
			}
		}

		fmt.Printf("[%d] %.3f relevance - %s (%s, %s)\n", i+1, hit.Relevance, hit.Metadata.Name, hit.Metadata.Type, verdict)
		fmt.Printf("    ID: %s\n", hit.ID)
		fmt.Printf("    %s\n", truncate(hit.Document, 120))
		fmt.Println()
	}

	fmt.Printf("💡 Use 'vegly classify <dish>' to run the full classification chain\n")

	return nil
}

func runSearchStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Build the classification stack
	st, err := buildStack(ctx)
	if err != nil {
		return err
	}

	stats := st.store.Stats()

	fmt.Println()
	fmt.Println("📊 Knowledge Base Statistics")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Total Documents: %d\n", stats.TotalDocuments)
	fmt.Printf("Ingredients:     %d\n", stats.Ingredients)
	fmt.Printf("Dishes:          %d\n", stats.Dishes)
	fmt.Printf("Embedding Model: %s\n", st.cfg.Embedding.Model)
	fmt.Printf("LLM Provider:    %s (%s)\n", st.provider.Name(), st.provider.Model())
	fmt.Println()

	return nil
}

// truncate truncates a string to a maximum length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
