package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest changes automatically",
	Long: `Watches the directory tree for created, modified and deleted files.
Supported files are ingested as they change; documents whose backing
file disappears are removed. Existing files are ingested on startup.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("no embedding provider configured; run 'docsage config set embedding.provider ollama' first")
	}

	w, err := watcher.New(args[0], ingestionService, extractorReg)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s. Press ctrl-c to stop.\n", args[0])
	err = w.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
