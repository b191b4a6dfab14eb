// Package cli provides the cobra command tree for the docsage binary.
// The root command wires adapters from configuration: the SQLite store,
// the AI services, and the core ingestion, retrieval and answer
// services. Commands degrade gracefully when an AI provider is not
// configured.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage/internal/adapters/driven/ai"
	configfile "github.com/docsage/docsage/internal/adapters/driven/config/file"
	"github.com/docsage/docsage/internal/adapters/driven/storage/sqlite"
	vecmemory "github.com/docsage/docsage/internal/adapters/driven/vector/memory"
	"github.com/docsage/docsage/internal/chunker"
	"github.com/docsage/docsage/internal/core/domain"
	"github.com/docsage/docsage/internal/core/ports/driven"
	"github.com/docsage/docsage/internal/core/ports/driving"
	"github.com/docsage/docsage/internal/core/services"
	"github.com/docsage/docsage/internal/extractors"
	"github.com/docsage/docsage/internal/logger"
)

// version is the docsage release version.
var version = "0.1.0"

// Global flags.
var (
	verboseFlag bool
	configDir   string
	dataDir     string
)

// Wired services, populated by initServices.
var (
	configStore      *configfile.ConfigStore
	store            *sqlite.Store
	vectorIndex      driven.VectorIndex
	embedder         driven.Embedder
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	extractorReg     *extractors.Registry
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	briefingService  driving.BriefingService
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Ask questions about your documents",
	Long: `docsage ingests local documents, indexes them semantically and
answers questions grounded in their content, with citations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if skipWiring(cmd) {
			return nil
		}
		return initServices(cmd.Context())
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.docsage)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.docsage/data)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// skipWiring reports whether a command runs without any services.
func skipWiring(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// initServices opens the stores and wires the core services.
// AI services stay nil when their provider is not configured; commands
// that need them report that to the user.
func initServices(ctx context.Context) error {
	var err error

	configStore, err = configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err = sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	embeddingService, err = ai.CreateAndValidateEmbeddingService(embeddingSettings())
	if err != nil {
		// Degrade to offline mode; retrieval commands will refuse.
		logger.Warn("%v", err)
		embeddingService = nil
	}

	llmService, err = ai.CreateAndValidateLLMService(llmSettings())
	if err != nil {
		logger.Warn("%v", err)
		llmService = nil
	}

	extractorReg = extractors.NewDefaultRegistry()
	briefingService = services.NewBriefings(llmService)

	if embeddingService == nil {
		return nil
	}

	cached := services.NewCachedEmbedder(embeddingService, store.EmbeddingStore())
	embedder = cached

	index, err := vecmemory.NewIndex(embeddingService.Dimensions())
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	if err := reloadIndex(ctx, index, store.DocumentStore(), store.EmbeddingStore()); err != nil {
		return fmt.Errorf("reloading index: %w", err)
	}
	vectorIndex = index

	ingestionService = services.NewIngestion(
		store.DocumentStore(), cached, extractorReg, index, chunker.New())
	retrievalService = services.NewRetriever(cached, index)
	if llmService != nil {
		answerService = services.NewAnswerer(retrievalService, llmService)
	}

	return nil
}

// reloadIndex rebuilds the in-memory vector index from the persisted
// chunks and their cached embeddings. Chunks whose embedding is
// missing (model change since ingestion) are skipped; re-ingesting
// the document restores them.
func reloadIndex(ctx context.Context, index driven.VectorIndex, docs driven.DocumentStore, embeddings driven.EmbeddingStore) error {
	documents, err := docs.ListDocuments(ctx)
	if err != nil {
		return err
	}

	loaded := 0
	for i := range documents {
		if documents[i].Status != domain.StatusReady {
			continue
		}

		chunks, err := docs.GetChunks(ctx, documents[i].ID)
		if err != nil {
			return err
		}

		entries := make([]domain.IndexEntry, 0, len(chunks))
		for _, chunk := range chunks {
			rec, err := embeddings.GetEmbedding(ctx, chunk.ContentHash)
			if err != nil {
				logger.Debug("No embedding for chunk %s, skipping", chunk.ID)
				continue
			}
			entries = append(entries, domain.IndexEntry{
				ChunkID:       chunk.ID,
				DocumentID:    chunk.DocumentID,
				SequenceIndex: chunk.SequenceIndex,
				Text:          chunk.Text,
				Vector:        rec.Vector,
			})
		}

		if len(entries) > 0 {
			if err := index.Upsert(ctx, entries); err != nil {
				return err
			}
			loaded += len(entries)
		}
	}

	logger.Debug("Index reloaded: %d entries from %d documents", loaded, len(documents))
	return nil
}

// embeddingSettings builds embedding settings from config, with an
// environment fallback for the OpenAI key.
func embeddingSettings() *domain.EmbeddingSettings {
	s := &domain.EmbeddingSettings{
		Provider: domain.AIProvider(configStore.GetString("embedding.provider")),
		Model:    configStore.GetString("embedding.model"),
		BaseURL:  configStore.GetString("embedding.base_url"),
		APIKey:   configStore.GetString("embedding.api_key"),
	}
	if s.APIKey == "" && s.Provider == domain.AIProviderOpenAI {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return s
}

// llmSettings builds LLM settings from config, with an environment
// fallback for the OpenAI key.
func llmSettings() *domain.LLMSettings {
	s := &domain.LLMSettings{
		Provider: domain.AIProvider(configStore.GetString("llm.provider")),
		Model:    configStore.GetString("llm.model"),
		BaseURL:  configStore.GetString("llm.base_url"),
		APIKey:   configStore.GetString("llm.api_key"),
	}
	if s.APIKey == "" && s.Provider == domain.AIProviderOpenAI {
		s.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return s
}

// schedulerConfig builds the scheduler configuration, starting from
// defaults and applying config overrides.
func schedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	if _, ok := configStore.Get("scheduler.enabled"); ok {
		cfg.Enabled = configStore.GetBool("scheduler.enabled")
	}

	for taskID, tc := range cfg.TaskConfigs {
		key := "scheduler." + taskID + ".enabled"
		if _, ok := configStore.Get(key); ok {
			tc.Enabled = configStore.GetBool(key)
			cfg.TaskConfigs[taskID] = tc
		}
	}
	return cfg
}

// closeServices releases external resources.
func closeServices() error {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
	if store != nil {
		return store.Close()
	}
	return nil
}
