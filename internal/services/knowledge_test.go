package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

func TestKnowledge_IndexJobReplacesChunks(t *testing.T) {
	gemini := &MockGeminiService{}
	qdrant := &MockQdrantService{}
	svc := NewKnowledgeService(gemini, qdrant, &MockPDFParser{}, zap.NewNop())

	job := &models.Job{ID: uuid.New(), Title: "Data Engineer", Brief: "Own the pipelines.", Requirements: "Spark, SQL"}
	jobID := job.ID.String()

	qdrant.On("DeleteByField", mock.Anything, "job_id", jobID).Return(nil).Once()
	gemini.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1, 0.2}, nil)
	qdrant.On("UpsertChunks", mock.Anything, mock.MatchedBy(func(chunks []KnowledgeChunk) bool {
		if len(chunks) != 1 {
			return false
		}
		c := chunks[0]
		return c.DocType == DocTypeJob && c.JobID == jobID && c.SourceID == "job:"+jobID &&
			strings.Contains(c.Text, "Spark, SQL") && strings.Contains(c.Text, "Data Engineer")
	})).Return(nil)

	require.NoError(t, svc.IndexJob(context.Background(), job))
	qdrant.AssertExpectations(t)
}

func TestKnowledge_IndexJobEmbeddingFailure(t *testing.T) {
	gemini := &MockGeminiService{}
	qdrant := &MockQdrantService{}
	svc := NewKnowledgeService(gemini, qdrant, &MockPDFParser{}, zap.NewNop())

	qdrant.On("DeleteByField", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	gemini.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("quota"))

	err := svc.IndexJob(context.Background(), &models.Job{ID: uuid.New(), Title: "X"})

	assert.Error(t, err)
	qdrant.AssertNotCalled(t, "UpsertChunks", mock.Anything, mock.Anything)
}

func TestKnowledge_RetrieveContextSearchesJobAndGuides(t *testing.T) {
	gemini := &MockGeminiService{}
	qdrant := &MockQdrantService{}
	svc := NewKnowledgeService(gemini, qdrant, &MockPDFParser{}, zap.NewNop())

	job := &models.Job{ID: uuid.New(), Title: "SRE"}
	embedding := []float32{1, 0}

	gemini.On("GenerateEmbedding", mock.Anything, "query").Return(embedding, nil)
	qdrant.On("SearchSimilar", mock.Anything, embedding, SearchFilter{DocType: DocTypeJob, JobID: job.ID.String()}, 3).
		Return([]SearchResult{{Text: "on-call rotation", DocType: DocTypeJob, Score: 0.9}}, nil)
	qdrant.On("SearchSimilar", mock.Anything, embedding, SearchFilter{DocType: DocTypeInterviewGuide}, 3).
		Return(nil, errors.New("collection missing"))

	ctx, err := svc.RetrieveContext(context.Background(), job, "query", 3)

	require.NoError(t, err)
	assert.Contains(t, ctx, "on-call rotation")
	assert.Contains(t, ctx, "Context 1 (job")
}

func TestKnowledge_IngestPDF(t *testing.T) {
	gemini := &MockGeminiService{}
	qdrant := &MockQdrantService{}
	pdf := &MockPDFParser{}
	svc := NewKnowledgeService(gemini, qdrant, pdf, zap.NewNop())

	pdf.On("ExtractText", "/docs/guide.pdf").Return(&PDFContent{Text: "Para one.\n\nPara two.", PageCount: 1}, nil)
	qdrant.On("DeleteByField", mock.Anything, "source_id", "interview_guide:guide.pdf").Return(nil)
	gemini.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{1}, nil)
	qdrant.On("UpsertChunks", mock.Anything, mock.Anything).Return(nil)

	n, err := svc.IngestPDF(context.Background(), "/docs/guide.pdf", DocTypeInterviewGuide)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestFormatRAGContext(t *testing.T) {
	assert.Equal(t, "No relevant context found.", FormatRAGContext(nil))

	out := FormatRAGContext([]SearchResult{
		{Text: " first ", DocType: "job", Score: 0.91},
		{Text: "second", DocType: "interview_guide", Score: 0.5},
	})

	assert.Equal(t, "--- Context 1 (job, score: 0.91) ---\nfirst\n\n--- Context 2 (interview_guide, score: 0.50) ---\nsecond", out)
}
