package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/core/domain"
)

var (
	resumeStatus string
	resumeJSON   bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage ingested resumes",
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resumes",
	RunE:  runResumeList,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show [resume-id]",
	Short: "Show resume info",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeShow,
}

var resumeDeleteCmd = &cobra.Command{
	Use:   "delete [resume-id]",
	Short: "Delete a resume and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeDelete,
}

func init() {
	resumeListCmd.Flags().StringVar(&resumeStatus, "status", "", "filter by status (pending|processing|completed|failed)")
	resumeListCmd.Flags().BoolVar(&resumeJSON, "json", false, "output as JSON")
	resumeShowCmd.Flags().BoolVar(&resumeJSON, "json", false, "output as JSON")

	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeShowCmd)
	resumeCmd.AddCommand(resumeDeleteCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	resumes, err := ingestService.List(context.Background(), domain.ResumeStatus(resumeStatus))
	if err != nil {
		return fmt.Errorf("listing resumes: %w", err)
	}

	if resumeJSON {
		return printJSON(cmd, resumes)
	}

	if len(resumes) == 0 {
		cmd.Println("No resumes.")
		return nil
	}
	for _, resume := range resumes {
		cmd.Printf("  %s  %-10s %s\n", resume.ID, resume.Status, resume.Filename)
	}
	return nil
}

func runResumeShow(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	resume, err := ingestService.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading resume: %w", err)
	}

	if resumeJSON {
		return printJSON(cmd, resume)
	}

	cmd.Printf("%s\n", resume.ID)
	cmd.Printf("  Filename: %s\n", resume.Filename)
	cmd.Printf("  Status:   %s\n", resume.Status)
	cmd.Printf("  Uploaded: %s\n", resume.UploadedAt.Format("2006-01-02 15:04:05 MST"))
	if resume.ProcessedAt != nil {
		cmd.Printf("  Processed: %s\n", resume.ProcessedAt.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

func runResumeDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	resumeID := args[0]
	if err := ingestService.Delete(context.Background(), resumeID); err != nil {
		return fmt.Errorf("deleting resume: %w", err)
	}

	if extractor != nil {
		if err := extractor.Remove(resumeID); err != nil {
			return err
		}
	}

	cmd.Printf("Deleted %s\n", resumeID)
	return nil
}
