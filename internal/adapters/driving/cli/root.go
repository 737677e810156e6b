// Package cli provides the cobra command tree for the docquery binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/extraction/tika"
	ollamallm "github.com/custodia-labs/docquery-cli/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/docquery-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/core/services"
	"github.com/custodia-labs/docquery-cli/internal/logger"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

var version = "0.1.0"

var (
	verbose   bool
	configDir string
)

// Services are wired lazily on first use so tests can inject fakes.
var (
	appConfig         *domain.Config
	ingestService     driving.IngestService
	ingestHTMLService driving.IngestService
	segmentService    driving.SegmentService
	embedService      driving.EmbedService
	askService        driving.AskService

	servicesWired bool
	closers       []func()
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Ingest documents and answer questions about their content",
	Long: `Docquery extracts text from source documents, segments it into
paragraphs, embeds them and answers questions grounded on the closest
paragraphs. Extraction runs through an Apache Tika server; embeddings
and answers come from local Ollama models.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docquery)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the real services from configuration. Commands
// call it after flag parsing so --config-dir is honoured.
func ensureServices() error {
	if servicesWired {
		return nil
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appConfig = cfg
	logger.Debug("Config loaded from %s", configStore.Path())

	store, err := sqlite.NewStore(cfg.Paths.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	closers = append(closers, func() { _ = store.Close() })

	textExtractor, err := tika.NewExtractionService(tika.Config{
		BaseURL: cfg.Services.TikaURL,
		Mode:    tika.ModeText,
	})
	if err != nil {
		return fmt.Errorf("configuring extraction: %w", err)
	}
	htmlExtractor, err := tika.NewExtractionService(tika.Config{
		BaseURL: cfg.Services.TikaURL,
		Mode:    tika.ModeHTML,
	})
	if err != nil {
		return fmt.Errorf("configuring extraction: %w", err)
	}

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL: cfg.Services.OllamaURL,
		Model:   cfg.Services.EmbeddingModel,
	})
	closers = append(closers, func() { _ = embedder.Close() })

	llm := ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: cfg.Services.OllamaURL,
		Model:   cfg.Services.LLMModel,
	})
	closers = append(closers, func() { _ = llm.Close() })

	seg := segmenter.New(
		segmenter.WithMinFragmentLength(cfg.Segmenter.MinFragmentLength),
		segmenter.WithLengthThreshold(cfg.Segmenter.LengthThreshold),
		segmenter.WithMinParagraphLength(cfg.Segmenter.MinParagraphLength),
		segmenter.WithTitleDetector(segmenter.NewTitleDetector(
			segmenter.WithMinTitleLength(cfg.Segmenter.MinTitleLength),
		)),
	)

	ingestService = services.NewIngestService(
		store.DocumentStore(), textExtractor, cfg.Paths.ProcessedDir)
	ingestHTMLService = services.NewIngestService(
		store.DocumentStore(), htmlExtractor, cfg.Paths.ProcessedDir)
	segmentService = services.NewSegmentService(
		store.DocumentStore(), store.ParagraphStore(), seg, cfg.Paths.ProcessedDir)
	embedService = services.NewEmbedService(store.ParagraphStore(), embedder)

	ask := services.NewAskService(
		store.ParagraphStore(), embedder, llm, store.QueryLogStore(), cfg.Retrieval)
	if promptStore, err := file.NewPromptStore(""); err == nil {
		ask.SetPromptStore(promptStore)
	} else {
		logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
	}
	askService = ask

	servicesWired = true
	return nil
}

func closeServices() {
	for _, fn := range closers {
		fn()
	}
	closers = nil
}
