package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/core/domain"
)

var briefingCount int

var briefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Generate a briefing on demand",
	Long: `Generates one of the scheduled briefings immediately and prints it.
The words and quotes briefings work offline; book summaries and news
digests need an LLM provider.`,
}

var briefingWordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Vocabulary words to learn",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printBriefing(cmd, briefingService.DailyWords(briefingCount), nil)
	},
}

var briefingQuotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Inspirational quotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printBriefing(cmd, briefingService.DailyQuotes(briefingCount), nil)
	},
}

var briefingBookCmd = &cobra.Command{
	Use:   "book",
	Short: "A book summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := briefingService.BookSummary(cmd.Context())
		return printBriefing(cmd, b, err)
	},
}

var briefingNewsCmd = &cobra.Command{
	Use:   "news",
	Short: "A tech news digest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, err := briefingService.NewsDigest(cmd.Context())
		return printBriefing(cmd, b, err)
	},
}

func init() {
	briefingWordsCmd.Flags().IntVarP(&briefingCount, "count", "n", 10, "number of words")
	briefingQuotesCmd.Flags().IntVarP(&briefingCount, "count", "n", 5, "number of quotes")
	briefingCmd.AddCommand(briefingWordsCmd)
	briefingCmd.AddCommand(briefingQuotesCmd)
	briefingCmd.AddCommand(briefingBookCmd)
	briefingCmd.AddCommand(briefingNewsCmd)
	rootCmd.AddCommand(briefingCmd)
}

func printBriefing(cmd *cobra.Command, b *domain.Briefing, err error) error {
	if err != nil {
		return fmt.Errorf("briefing failed: %w", err)
	}

	cmd.Println(b.Subject)
	cmd.Println()
	cmd.Println(b.Body)
	return nil
}
