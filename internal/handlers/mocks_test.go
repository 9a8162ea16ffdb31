package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

// fakeAuth resolves a fixed set of tokens.
type fakeAuth struct {
	mock.Mock
	tokens map[string]*models.User
}

func (f *fakeAuth) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.AuthResponse, error) {
	args := f.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (f *fakeAuth) SignIn(ctx context.Context, req *models.SignInRequest) (*models.AuthResponse, error) {
	args := f.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (f *fakeAuth) SignOut(ctx context.Context, token string) error {
	return f.Called(token).Error(0)
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := f.tokens[token]; ok {
		return user, nil
	}
	return nil, services.ErrUnauthorized
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

type MockInterviewService struct {
	mock.Mock
}

func (m *MockInterviewService) Create(applicantID, jobID uuid.UUID) (*models.Interview, error) {
	args := m.Called(applicantID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *MockInterviewService) Get(id uuid.UUID) (*models.Interview, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *MockInterviewService) Detail(id uuid.UUID) (*models.InterviewDetailResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterviewDetailResponse), args.Error(1)
}

func (m *MockInterviewService) Results(applicantID uuid.UUID) ([]models.InterviewResult, error) {
	args := m.Called(applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InterviewResult), args.Error(1)
}

func (m *MockInterviewService) LoadPlan(interview *models.Interview) (*services.InterviewPlan, error) {
	args := m.Called(interview)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InterviewPlan), args.Error(1)
}

func (m *MockInterviewService) QuestionAudio(ctx context.Context, interviewID uuid.UUID, index int) (*models.QuestionAudioResponse, error) {
	args := m.Called(interviewID, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuestionAudioResponse), args.Error(1)
}

// fakeKnowledge reports background indexing calls on a channel.
type fakeKnowledge struct {
	indexed chan uuid.UUID
	removed chan string
}

func newFakeKnowledge() *fakeKnowledge {
	return &fakeKnowledge{
		indexed: make(chan uuid.UUID, 4),
		removed: make(chan string, 4),
	}
}

func (f *fakeKnowledge) IndexJob(_ context.Context, job *models.Job) error {
	f.indexed <- job.ID
	return nil
}

func (f *fakeKnowledge) RemoveJob(_ context.Context, jobID string) error {
	f.removed <- jobID
	return nil
}

func (f *fakeKnowledge) RetrieveContext(context.Context, *models.Job, string, int) (string, error) {
	return "", nil
}

func (f *fakeKnowledge) IngestPDF(context.Context, string, string) (int, error) {
	return 0, nil
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) SaveFile(file *multipart.FileHeader, prefix string) (string, string, error) {
	args := m.Called(file, prefix)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorageService) SaveBytes(data []byte, prefix, ext string) (string, error) {
	args := m.Called(data, prefix, ext)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) GetFilePath(filename string) string {
	return m.Called(filename).String(0)
}

func (m *MockStorageService) DeleteFile(filename string) error {
	return m.Called(filename).Error(0)
}

func (m *MockStorageService) EnsureUploadDir() error {
	return m.Called().Error(0)
}

type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockWorker) Stop() {
	m.Called()
}

func (m *MockWorker) EnqueueJob(cvID uuid.UUID) {
	m.Called(cvID)
}

type MockSpeechToText struct {
	mock.Mock
}

func (m *MockSpeechToText) Transcribe(_ context.Context, audio []byte, mimeType string) (string, error) {
	args := m.Called(audio, mimeType)
	return args.String(0), args.Error(1)
}

type MockSessionRunner struct {
	mock.Mock
}

func (m *MockSessionRunner) Run(ctx context.Context, interviewID uuid.UUID, conn services.SessionConn) error {
	return m.Called(interviewID).Error(0)
}
