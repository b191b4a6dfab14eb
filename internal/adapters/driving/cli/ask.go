package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/core/domain"
)

var (
	askTopK     int
	askMinScore float64
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Retrieves the most relevant passages from the ingested documents
and synthesizes an answer grounded in them, with citations.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve relevant passages without generating an answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runRetrieve,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "maximum number of passages to ground the answer on")
	askCmd.Flags().Float64Var(&askMinScore, "min-score", 0, "minimum similarity score")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	retrieveCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "maximum number of passages")
	retrieveCmd.Flags().Float64Var(&askMinScore, "min-score", 0, "minimum similarity score")
	retrieveCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(retrieveCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("ask needs both an embedding and an LLM provider; check 'docsage config show'")
	}

	opts := domain.AskOptions{TopK: askTopK, MinScore: askMinScore}
	answer, err := answerService.Ask(cmd.Context(), args[0], opts)
	if err != nil {
		// Generation failure still carries the citations.
		if errors.Is(err, domain.ErrGenerationUnavailable) && answer != nil {
			cmd.PrintErrf("Answer generation failed: %v\n", err)
			if len(answer.Citations) > 0 {
				cmd.Println("\nRelevant passages were found:")
				printCitations(cmd, answer.Citations)
			}
			return err
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Citations) > 0 {
		cmd.Println("\nSources:")
		printCitations(cmd, answer.Citations)
	}
	return nil
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("no embedding provider configured; run 'docsage config set embedding.provider ollama' first")
	}

	opts := domain.AskOptions{TopK: askTopK, MinScore: askMinScore}
	results, err := retrievalService.Retrieve(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No relevant passages found.")
		return nil
	}

	for i := range results {
		cmd.Printf("  [%d] %.3f  document %s, chunk %d\n", i+1, results[i].Score, results[i].DocumentID, results[i].SequenceIndex)
		cmd.Printf("      %s\n\n", results[i].Text)
	}
	return nil
}

func printCitations(cmd *cobra.Command, citations []domain.Citation) {
	for i, c := range citations {
		cmd.Printf("  [%d] document %s, chunk %s\n", i+1, c.DocumentID, c.ChunkID)
	}
}
