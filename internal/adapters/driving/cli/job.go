package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
)

var (
	jobTitle           string
	jobDescription     string
	jobDescriptionFile string
	jobKey             string
	jobJSON            bool
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage jobs",
	Long:  `Create and inspect jobs. Requirement keywords are extracted from the description at creation time and never change afterwards.`,
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job from a title and description",
	RunE:  runJobCreate,
}

var jobShowCmd = &cobra.Command{
	Use:   "show [job-id]",
	Short: "Show a job and its requirements",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobShow,
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all jobs",
	RunE:  runJobList,
}

func init() {
	jobCreateCmd.Flags().StringVar(&jobTitle, "title", "", "job title (required)")
	jobCreateCmd.Flags().StringVar(&jobDescription, "description", "", "job description text")
	jobCreateCmd.Flags().StringVar(&jobDescriptionFile, "description-file", "", "read the job description from a file")
	jobCreateCmd.Flags().StringVar(&jobKey, "key", "", "idempotency key")
	jobCreateCmd.Flags().BoolVar(&jobJSON, "json", false, "output the job as JSON")
	jobShowCmd.Flags().BoolVar(&jobJSON, "json", false, "output the job as JSON")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobListCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobCreate(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	description := jobDescription
	if jobDescriptionFile != "" {
		content, err := os.ReadFile(jobDescriptionFile)
		if err != nil {
			return fmt.Errorf("reading description file: %w", err)
		}
		description = string(content)
	}

	job, err := jobService.Create(context.Background(), driving.CreateJobRequest{
		IdempotencyKey: jobKey,
		Title:          jobTitle,
		Description:    description,
	})
	if err != nil {
		return fmt.Errorf("creating job: %w", err)
	}

	if jobJSON {
		return printJSON(cmd, job)
	}

	cmd.Printf("Created job %s\n", job.ID)
	cmd.Printf("  Title: %s\n", job.Title)
	printRequirements(cmd, job)
	return nil
}

func runJobShow(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	job, err := jobService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}

	if jobJSON {
		return printJSON(cmd, job)
	}

	cmd.Printf("%s: %s\n", job.ID, job.Title)
	printRequirements(cmd, job)
	return nil
}

func runJobList(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errors.New("job service not configured")
	}

	jobs, err := jobService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing jobs: %w", err)
	}

	if len(jobs) == 0 {
		cmd.Println("No jobs.")
		return nil
	}
	for _, job := range jobs {
		cmd.Printf("  %s  %s (%d requirements)\n", job.ID, job.Title, len(job.Requirements))
	}
	return nil
}

func printRequirements(cmd *cobra.Command, job *domain.Job) {
	if len(job.Requirements) == 0 {
		cmd.Println("  Requirements: none extracted")
		return
	}
	cmd.Printf("  Requirements: %s\n", strings.Join(job.Requirements, ", "))
}
