package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/extractors"
	"github.com/docsage/docsage/internal/watcher"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest documents into the index",
	Long: `Extracts, chunks, embeds and indexes the given files. Directories
are walked recursively; unsupported file types are skipped. Re-ingesting
unchanged content is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestionService == nil {
		return errors.New("no embedding provider configured; run 'docsage config set embedding.provider ollama' first")
	}

	var ingested, skipped, failed int
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}

		if info.IsDir() {
			err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil || d.IsDir() {
					return err
				}
				if !extractorReg.Supports(extractors.FileTypeOf(path)) {
					skipped++
					return nil
				}
				if ingestOne(cmd, path) {
					ingested++
				} else {
					failed++
				}
				return nil
			})
			if err != nil {
				return err
			}
			continue
		}

		if !extractorReg.Supports(extractors.FileTypeOf(arg)) {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, arg)
		}
		if ingestOne(cmd, arg) {
			ingested++
		} else {
			failed++
		}
	}

	cmd.Printf("Ingested %d, skipped %d, failed %d\n", ingested, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to ingest", failed)
	}
	return nil
}

// ingestOne ingests a single file, reporting the outcome. Returns
// false on failure so the walk can continue with other files.
func ingestOne(cmd *cobra.Command, path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		cmd.PrintErrf("  %s: %v\n", path, err)
		return false
	}

	doc, err := ingestionService.Ingest(cmd.Context(), watcher.SourceURI(path), content, extractors.FileTypeOf(path))
	if err != nil {
		cmd.PrintErrf("  %s: %v\n", path, err)
		return false
	}

	cmd.Printf("  %s (%s)\n", path, doc.ID)
	return true
}
