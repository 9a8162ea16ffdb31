package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/config"
	"alfredoptarigan/ai-interview-platform/internal/logger"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "AI interview platform API",
	Long:  "Serves the interview platform API and maintains its retrieval knowledge base.",
	// `api` with no subcommand runs the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// setup loads configuration and builds the process logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, log, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))
	return cfg, log, nil
}

// aiStack is the model and vector store plumbing shared by serve and ingest.
type aiStack struct {
	gemini    services.GeminiService
	speech    *services.GeminiSpeech
	qdrant    services.QdrantService
	pdf       services.PDFParserService
	knowledge services.KnowledgeService
}

func setupAI(ctx context.Context, cfg *config.Config, log *zap.Logger) (*aiStack, error) {
	client, err := services.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini AI: %w", err)
	}
	gemini := services.NewGeminiService(client, cfg.Gemini, cfg.Worker.RetryInitialDelay, log)
	log.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.TextModel))

	qdrant, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		cfg.Qdrant.VectorSize,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant: %w", err)
	}

	if err := qdrant.InitCollection(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize Qdrant collection: %w", err)
	}
	log.Info("✅ Qdrant initialized successfully", zap.String("collection", cfg.Qdrant.Collection))

	pdf := services.NewPDFParserService()

	return &aiStack{
		gemini:    gemini,
		speech:    services.NewGeminiSpeech(client, cfg.Gemini, log),
		qdrant:    qdrant,
		pdf:       pdf,
		knowledge: services.NewKnowledgeService(gemini, qdrant, pdf, log),
	}, nil
}
