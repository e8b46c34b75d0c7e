package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/resumatch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/resumatch-cli/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [inbox-dir]",
	Short: "Watch a directory and ingest dropped resume files",
	Long: `Watches an inbox directory and ingests every .txt file dropped into
it. Runs until interrupted. The inbox defaults to the watch.inbox
config key when no directory is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if extractor == nil {
		return errors.New("extractor not configured")
	}

	inbox := ""
	if len(args) == 1 {
		inbox = args[0]
	} else if configStore != nil {
		inbox = configStore.GetString(configfile.KeyWatchInbox)
	}
	if inbox == "" {
		return errors.New("no inbox directory given and watch.inbox is not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(inbox, ingestService, extractor)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
