package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

var (
	askTop  int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Rank resumes against a free-text query",
	Long: `Embeds the query and ranks indexed resumes by vector similarity.
Results are cached for an hour; a repeated query within that window is
answered from the cache and marked as such.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTop, "top", "k", 5, "maximum number of resumes to return")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	result, err := askService.Ask(context.Background(), args[0], askTop)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, result)
	}
	return outputAskTable(cmd, result)
}

func outputAskTable(cmd *cobra.Command, result *domain.AskResult) error {
	if len(result.Answers) == 0 {
		cmd.Println("No matching resumes.")
		return nil
	}

	if result.Cached {
		cmd.Println("Results (cached):")
	} else {
		cmd.Println("Results:")
	}
	cmd.Println()

	for i, answer := range result.Answers {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, answer.Filename, answer.Score)
		cmd.Printf("      ID: %s\n", answer.ResumeID)
		for _, snippet := range answer.Snippets {
			cmd.Printf("      p%d: %s\n", snippet.Page, truncate(snippet.Text, 120))
		}
		cmd.Println()
	}
	return nil
}

// truncate shortens s to at most n runes with an ellipsis marker.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
