package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/services"
)

var ingestDocType string

var ingestCmd = &cobra.Command{
	Use:   "ingest <pdf>...",
	Short: "Index reference PDFs into the knowledge base",
	Long: "Extracts, chunks and embeds interview guides or rubrics so question generation " +
		"can retrieve them. Re-ingesting a file replaces its previous chunks.",
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestDocType, "type", "t", services.DocTypeInterviewGuide, "document type stored with each chunk")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	ai, err := setupAI(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("🚀 Starting document ingestion", zap.Int("documents", len(args)), zap.String("doc_type", ingestDocType))

	var failed int
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			log.Error("❌ File not found", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		chunks, err := ai.knowledge.IngestPDF(ctx, path, ingestDocType)
		if err != nil {
			log.Error("❌ Failed to ingest document", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}

		log.Info("✅ Document ingested", zap.String("path", path), zap.Int("chunks", chunks))
	}

	log.Info("📊 Ingestion summary",
		zap.Int("succeeded", len(args)-failed),
		zap.Int("failed", failed),
	)

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed to ingest", failed, len(args))
	}
	return nil
}
