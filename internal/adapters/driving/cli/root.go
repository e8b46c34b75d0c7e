// Package cli provides the cobra command-line interface. Commands talk to
// the core exclusively through driving ports; wiring happens in main.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumatch-cli/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driven"
	"github.com/custodia-labs/resumatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/resumatch-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by main before Execute.
var (
	ingestService driving.IngestService
	askService    driving.AskService
	jobService    driving.JobService
	matchService  driving.MatchService
	extractor     *filesystem.Extractor
	configStore   driven.ConfigStore
)

var verbose bool

// Services bundles everything the commands need.
type Services struct {
	Ingest    driving.IngestService
	Ask       driving.AskService
	Job       driving.JobService
	Match     driving.MatchService
	Extractor *filesystem.Extractor
	Config    driven.ConfigStore
}

// Configure injects the service implementations.
func Configure(s Services) {
	ingestService = s.Ingest
	askService = s.Ask
	jobService = s.Job
	matchService = s.Match
	extractor = s.Extractor
	configStore = s.Config
}

var rootCmd = &cobra.Command{
	Use:   "resumatch",
	Short: "Deterministic resume retrieval and job matching",
	Long: `resumatch indexes resume text locally and answers two questions:
which resumes best match a free-text query, and how well each resume
covers a job's requirements. All ranking is deterministic, so identical
inputs always produce identical output.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
