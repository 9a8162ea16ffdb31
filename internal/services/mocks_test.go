package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

// ==========================
// Repositories
// ==========================

type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(interview *models.Interview) error {
	return m.Called(interview).Error(0)
}

func (m *MockInterviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *MockInterviewRepository) FindByApplicant(applicantID uuid.UUID) ([]models.Interview, error) {
	args := m.Called(applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Interview), args.Error(1)
}

func (m *MockInterviewRepository) MarkInProgress(id uuid.UUID, startedAt time.Time) error {
	return m.Called(id, startedAt).Error(0)
}

func (m *MockInterviewRepository) SaveProgress(id uuid.UUID, progress *repositories.InterviewProgress) error {
	return m.Called(id, progress).Error(0)
}

func (m *MockInterviewRepository) MarkCompleted(id uuid.UUID, progress *repositories.InterviewProgress, summary *models.InterviewSummary) error {
	return m.Called(id, progress, summary).Error(0)
}

type MockCVRepository struct {
	mock.Mock
}

func (m *MockCVRepository) Create(cv *models.CV) error {
	return m.Called(cv).Error(0)
}

func (m *MockCVRepository) FindByID(id uuid.UUID) (*models.CV, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CV), args.Error(1)
}

func (m *MockCVRepository) FindByApplicant(applicantID uuid.UUID) ([]models.CV, error) {
	args := m.Called(applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CV), args.Error(1)
}

func (m *MockCVRepository) FindLatestReady(applicantID uuid.UUID) (*models.CV, error) {
	args := m.Called(applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CV), args.Error(1)
}

func (m *MockCVRepository) ReplaceFile(id uuid.UUID, data *repositories.CVFileData) error {
	return m.Called(id, data).Error(0)
}

func (m *MockCVRepository) UpdateStatus(id uuid.UUID, status models.ProcessingStatus) error {
	return m.Called(id, status).Error(0)
}

func (m *MockCVRepository) UpdateResult(id uuid.UUID, parsed models.JSONMap, questions []string) error {
	return m.Called(id, parsed, questions).Error(0)
}

func (m *MockCVRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return m.Called(id, errorMsg).Error(0)
}

func (m *MockCVRepository) Delete(applicantID, id uuid.UUID) error {
	return m.Called(applicantID, id).Error(0)
}

func (m *MockCVRepository) FindPendingJobs(limit int) ([]models.CV, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CV), args.Error(1)
}

type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(job *models.Job) error {
	return m.Called(job).Error(0)
}

func (m *MockJobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) List() ([]models.Job, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Job), args.Error(1)
}

func (m *MockJobRepository) Update(id uuid.UUID, req *models.JobUpdateRequest) (*models.Job, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *MockJobRepository) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type MockApplicantRepository struct {
	mock.Mock
}

func (m *MockApplicantRepository) Create(applicant *models.Applicant) error {
	return m.Called(applicant).Error(0)
}

func (m *MockApplicantRepository) FindByID(id uuid.UUID) (*models.Applicant, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Applicant), args.Error(1)
}

func (m *MockApplicantRepository) FindByUserAndJob(userID, jobID uuid.UUID) (*models.Applicant, error) {
	args := m.Called(userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Applicant), args.Error(1)
}

func (m *MockApplicantRepository) Delete(jobID, id uuid.UUID) error {
	return m.Called(jobID, id).Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

// ==========================
// Upstream services
// ==========================

type MockGeminiService struct {
	mock.Mock
}

func (m *MockGeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockGeminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

func (m *MockGeminiService) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	args := m.Called(ctx, prompt, temperature, maxRetries)
	return args.String(0), args.Error(1)
}

func (m *MockGeminiService) GenerateJSONWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	args := m.Called(ctx, prompt, temperature, maxRetries)
	return args.String(0), args.Error(1)
}

type MockQdrantService struct {
	mock.Mock
}

func (m *MockQdrantService) InitCollection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockQdrantService) UpsertChunks(ctx context.Context, chunks []KnowledgeChunk) error {
	return m.Called(ctx, chunks).Error(0)
}

func (m *MockQdrantService) SearchSimilar(ctx context.Context, queryEmbedding []float32, filter SearchFilter, limit int) ([]SearchResult, error) {
	args := m.Called(ctx, queryEmbedding, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SearchResult), args.Error(1)
}

func (m *MockQdrantService) DeleteByField(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

type MockKnowledgeService struct {
	mock.Mock
}

func (m *MockKnowledgeService) IndexJob(ctx context.Context, job *models.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockKnowledgeService) RemoveJob(ctx context.Context, jobID string) error {
	return m.Called(ctx, jobID).Error(0)
}

func (m *MockKnowledgeService) RetrieveContext(ctx context.Context, job *models.Job, query string, limit int) (string, error) {
	args := m.Called(ctx, job, query, limit)
	return args.String(0), args.Error(1)
}

func (m *MockKnowledgeService) IngestPDF(ctx context.Context, path, docType string) (int, error) {
	args := m.Called(ctx, path, docType)
	return args.Int(0), args.Error(1)
}

type MockPDFParser struct {
	mock.Mock
}

func (m *MockPDFParser) ExtractText(filePath string) (*PDFContent, error) {
	args := m.Called(filePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PDFContent), args.Error(1)
}

type MockTextToSpeech struct {
	mock.Mock
}

func (m *MockTextToSpeech) Synthesize(ctx context.Context, text string) (*Audio, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Audio), args.Error(1)
}

type MockSpeechToText struct {
	mock.Mock
}

func (m *MockSpeechToText) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	args := m.Called(ctx, audio, mimeType)
	return args.String(0), args.Error(1)
}

type MockAnswerEvaluator struct {
	mock.Mock
}

func (m *MockAnswerEvaluator) Evaluate(ctx context.Context, in EvaluationInput) models.AnswerEvaluation {
	return m.Called(ctx, in).Get(0).(models.AnswerEvaluation)
}

func (m *MockAnswerEvaluator) Summarize(ctx context.Context, jobTitle string, transcript models.Transcript, evaluations models.Evaluations, averageScore float64) (string, error) {
	args := m.Called(ctx, jobTitle, transcript, evaluations, averageScore)
	return args.String(0), args.Error(1)
}

type MockSessionLocker struct {
	mock.Mock
	released int
}

func (m *MockSessionLocker) Acquire(ctx context.Context, interviewID uuid.UUID) (func(), error) {
	args := m.Called(ctx, interviewID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.released++ }, nil
}

type MockPlanLoader struct {
	mock.Mock
}

func (m *MockPlanLoader) LoadPlan(interview *models.Interview) (*InterviewPlan, error) {
	args := m.Called(interview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InterviewPlan), args.Error(1)
}
