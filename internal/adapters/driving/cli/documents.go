package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage ingested documents",
	Long:    `List, inspect or delete ingested documents.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

// documentsUnavailable is the shared guard for document commands,
// which need the document store but not the LLM.
func documentsUnavailable() error {
	if ingestionService == nil {
		return errors.New("no embedding provider configured; run 'docsage config set embedding.provider ollama' first")
	}
	return nil
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := documentsUnavailable(); err != nil {
		return err
	}

	docs, err := ingestionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  [%s]  %s\n", docs[i].ID, docs[i].Status, docs[i].SourceURI)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if err := documentsUnavailable(); err != nil {
		return err
	}

	doc, err := ingestionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Source:   %s\n", doc.SourceURI)
	cmd.Printf("  Status:   %s\n", doc.Status)
	cmd.Printf("  Hash:     %s\n", doc.ContentHash)
	if !doc.IngestedAt.IsZero() {
		cmd.Printf("  Ingested: %s\n", doc.IngestedAt.Format("2006-01-02 15:04:05"))
	}
	if doc.Status == domain.StatusFailed && doc.Error != "" {
		cmd.Printf("  Error:    %s\n", doc.Error)
	}

	chunks, err := store.DocumentStore().GetChunks(cmd.Context(), doc.ID)
	if err == nil {
		cmd.Printf("  Chunks:   %d\n", len(chunks))
	}

	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if err := documentsUnavailable(); err != nil {
		return err
	}

	if err := ingestionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[0])
	return nil
}
