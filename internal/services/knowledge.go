package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

const (
	DocTypeJob            = "job"
	DocTypeInterviewGuide = "interview_guide"

	chunkSize    = 1000
	chunkOverlap = 200
)

// KnowledgeService keeps the vector index of job postings and reference
// documents used to ground question generation.
type KnowledgeService interface {
	IndexJob(ctx context.Context, job *models.Job) error
	RemoveJob(ctx context.Context, jobID string) error
	RetrieveContext(ctx context.Context, job *models.Job, query string, limit int) (string, error)
	IngestPDF(ctx context.Context, path, docType string) (int, error)
}

type knowledgeService struct {
	gemini  GeminiService
	qdrant  QdrantService
	pdf     PDFParserService
	chunker TextChunker
	logger  *zap.Logger
}

func NewKnowledgeService(gemini GeminiService, qdrant QdrantService, pdf PDFParserService, logger *zap.Logger) KnowledgeService {
	return &knowledgeService{
		gemini:  gemini,
		qdrant:  qdrant,
		pdf:     pdf,
		chunker: NewTextChunker(),
		logger:  logger,
	}
}

// IndexJob replaces the job's chunks with ones built from its current text.
func (k *knowledgeService) IndexJob(ctx context.Context, job *models.Job) error {
	jobID := job.ID.String()

	if err := k.qdrant.DeleteByField(ctx, "job_id", jobID); err != nil {
		return fmt.Errorf("failed to clear job knowledge: %w", err)
	}

	text := jobDocument(job)
	stored, err := k.store(ctx, "job:"+jobID, DocTypeJob, jobID, text)
	if err != nil {
		return err
	}

	k.logger.Info("Job knowledge indexed", zap.String("job_id", jobID), zap.Int("chunks", stored))
	return nil
}

func (k *knowledgeService) RemoveJob(ctx context.Context, jobID string) error {
	if err := k.qdrant.DeleteByField(ctx, "job_id", jobID); err != nil {
		return fmt.Errorf("failed to remove job knowledge: %w", err)
	}
	return nil
}

// RetrieveContext searches the job's own chunks and the shared interview
// guides, returning them formatted for a prompt.
func (k *knowledgeService) RetrieveContext(ctx context.Context, job *models.Job, query string, limit int) (string, error) {
	embedding, err := k.gemini.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to generate query embedding: %w", err)
	}

	filters := []SearchFilter{
		{DocType: DocTypeJob, JobID: job.ID.String()},
		{DocType: DocTypeInterviewGuide},
	}

	var all []SearchResult
	for _, filter := range filters {
		results, err := k.qdrant.SearchSimilar(ctx, embedding, filter, limit)
		if err != nil {
			k.logger.Warn("Knowledge search failed", zap.String("doc_type", filter.DocType), zap.Error(err))
			continue
		}
		all = append(all, results...)
	}

	return FormatRAGContext(all), nil
}

// IngestPDF indexes a reference document and returns the number of chunks stored.
func (k *knowledgeService) IngestPDF(ctx context.Context, path, docType string) (int, error) {
	content, err := k.pdf.ExtractText(path)
	if err != nil {
		return 0, fmt.Errorf("failed to extract text: %w", err)
	}

	sourceID := docType + ":" + filepath.Base(path)
	if err := k.qdrant.DeleteByField(ctx, "source_id", sourceID); err != nil {
		return 0, fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	return k.store(ctx, sourceID, docType, "", content.Text)
}

func (k *knowledgeService) store(ctx context.Context, sourceID, docType, jobID, text string) (int, error) {
	pieces := k.chunker.ChunkText(text, chunkSize, chunkOverlap)
	if len(pieces) == 0 {
		return 0, nil
	}

	chunks := make([]KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		embedding, err := k.gemini.GenerateEmbedding(ctx, piece)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		chunks = append(chunks, KnowledgeChunk{
			SourceID:   sourceID,
			DocType:    docType,
			JobID:      jobID,
			ChunkIndex: i,
			Text:       piece,
			Embedding:  embedding,
		})
	}

	if err := k.qdrant.UpsertChunks(ctx, chunks); err != nil {
		return 0, err
	}

	return len(chunks), nil
}

func jobDocument(job *models.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Job title: %s", job.Title)
	if job.Brief != "" {
		fmt.Fprintf(&b, "\n\nBrief:\n%s", job.Brief)
	}
	if job.Requirements != "" {
		fmt.Fprintf(&b, "\n\nRequirements:\n%s", job.Requirements)
	}
	return b.String()
}
