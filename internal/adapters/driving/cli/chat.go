package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat over your documents",
	Long:  `Opens a terminal chat where each question is answered from the ingested documents.`,
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return errors.New("chat needs both an embedding and an LLM provider; check 'docsage config show'")
	}

	app, err := tui.NewApp(&tui.Ports{
		Answer:    answerService,
		Ingestion: ingestionService,
	})
	if err != nil {
		return err
	}

	return app.WithContext(cmd.Context()).Run()
}
