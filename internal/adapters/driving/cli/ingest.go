package cli

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
)

var (
	ingestKey  string
	ingestJSON bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a resume text file",
	Long: `Registers a plain-text resume, chunks and embeds it, and adds it to
the search index. Re-ingesting an identical file under the same
idempotency key returns the original resume instead of a duplicate.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestKey, "key", "", "idempotency key (default: derived from file content)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the resume as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if extractor == nil {
		return errors.New("extractor not configured")
	}

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	filename := filepath.Base(path)
	key := ingestKey
	if key == "" {
		sum := sha256.Sum256(content)
		key = "cli:" + filename + ":" + hex.EncodeToString(sum[:8])
	}

	ctx := context.Background()
	resume, err := ingestService.Register(ctx, driving.RegisterRequest{
		IdempotencyKey: key,
		Filename:       filename,
		Content:        content,
	})
	if err != nil {
		return fmt.Errorf("registering resume: %w", err)
	}

	if err := extractor.SaveText(resume.ID, content); err != nil {
		return err
	}
	if err := ingestService.Process(ctx, resume.ID); err != nil {
		return fmt.Errorf("processing resume: %w", err)
	}

	processed, err := ingestService.Get(ctx, resume.ID)
	if err != nil {
		return fmt.Errorf("loading resume: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, processed)
	}

	cmd.Printf("Ingested %s\n", filename)
	cmd.Printf("  ID:     %s\n", processed.ID)
	cmd.Printf("  Status: %s\n", processed.Status)
	return nil
}
