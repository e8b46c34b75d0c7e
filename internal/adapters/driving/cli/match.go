package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

var (
	matchTop  int
	matchJSON bool
)

var matchCmd = &cobra.Command{
	Use:   "match [job-id]",
	Short: "Match resumes against a job's requirements",
	Long: `Scans every processed resume for evidence of each job requirement.
The score is the fraction of requirements with supporting evidence;
requirements with no evidence are listed as missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().IntVarP(&matchTop, "top", "n", 5, "maximum number of candidates to return")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if matchService == nil {
		return errors.New("match service not configured")
	}

	result, err := matchService.Match(context.Background(), args[0], matchTop)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	if matchJSON {
		return printJSON(cmd, result)
	}
	return outputMatchTable(cmd, result)
}

func outputMatchTable(cmd *cobra.Command, result *domain.MatchResult) error {
	if len(result.Matches) == 0 {
		cmd.Println("No candidates matched any requirement.")
		return nil
	}

	cmd.Printf("Matches for %s:\n\n", result.JobID)
	for i, match := range result.Matches {
		cmd.Printf("  [%d] %s (%.4f)\n", i+1, match.Filename, match.Score)
		cmd.Printf("      ID: %s\n", match.ResumeID)
		for _, ev := range match.Evidence {
			cmd.Printf("      p%d l%d [%s]: %s\n",
				ev.Page, ev.LineNumber, ev.MatchedKeyword, truncate(ev.Text, 100))
		}
		if len(match.MissingRequirements) > 0 {
			cmd.Printf("      Missing: %s\n", strings.Join(match.MissingRequirements, ", "))
		}
		cmd.Println()
	}
	return nil
}
