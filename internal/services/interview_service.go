package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

var (
	ErrQuestionsNotReady = errors.New("interview questions are not ready")
	ErrQuestionIndex     = errors.New("question index out of range")
)

// InterviewPlan is everything a session needs before asking the first question.
type InterviewPlan struct {
	Interview *models.Interview
	Job       *models.Job
	CV        *models.CV
	Questions []string
}

type InterviewService interface {
	Create(applicantID, jobID uuid.UUID) (*models.Interview, error)
	Get(id uuid.UUID) (*models.Interview, error)
	Detail(id uuid.UUID) (*models.InterviewDetailResponse, error)
	Results(applicantID uuid.UUID) ([]models.InterviewResult, error)
	LoadPlan(interview *models.Interview) (*InterviewPlan, error)
	QuestionAudio(ctx context.Context, interviewID uuid.UUID, index int) (*models.QuestionAudioResponse, error)
}

type interviewService struct {
	interviewRepo repositories.InterviewRepository
	applicantRepo repositories.ApplicantRepository
	userRepo      repositories.UserRepository
	jobRepo       repositories.JobRepository
	cvRepo        repositories.CVRepository
	tts           TextToSpeech
	logger        *zap.Logger
}

func NewInterviewService(
	interviewRepo repositories.InterviewRepository,
	applicantRepo repositories.ApplicantRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	cvRepo repositories.CVRepository,
	tts TextToSpeech,
	logger *zap.Logger,
) InterviewService {
	return &interviewService{
		interviewRepo: interviewRepo,
		applicantRepo: applicantRepo,
		userRepo:      userRepo,
		jobRepo:       jobRepo,
		cvRepo:        cvRepo,
		tts:           tts,
		logger:        logger,
	}
}

// Create opens a Pending interview for an applicant of the given job.
func (s *interviewService) Create(applicantID, jobID uuid.UUID) (*models.Interview, error) {
	applicant, err := s.applicantRepo.FindByID(applicantID)
	if err != nil {
		return nil, err
	}
	if jobID == uuid.Nil {
		jobID = applicant.JobID
	}
	if applicant.JobID != jobID {
		return nil, fmt.Errorf("%w: applicant did not apply to this job", ErrInvalidInput)
	}

	if _, err := s.jobRepo.FindByID(jobID); err != nil {
		return nil, err
	}

	interview := &models.Interview{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		JobID:       jobID,
		Status:      models.InterviewPending,
		Transcript:  models.Transcript{},
		Evaluations: models.Evaluations{},
		Media:       models.MediaItems{},
	}
	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, err
	}

	s.logger.Info("Interview created",
		zap.String("interview_id", interview.ID.String()),
		zap.String("applicant_id", applicantID.String()))

	return interview, nil
}

func (s *interviewService) Get(id uuid.UUID) (*models.Interview, error) {
	return s.interviewRepo.FindByID(id)
}

func (s *interviewService) Detail(id uuid.UUID) (*models.InterviewDetailResponse, error) {
	interview, err := s.interviewRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	resp := &models.InterviewDetailResponse{
		ID:          interview.ID.String(),
		Status:      string(interview.Status),
		ApplicantID: interview.ApplicantID.String(),
		JobID:       interview.JobID.String(),
		Transcript:  interview.Transcript,
		Evaluations: interview.Evaluations,
		Summary:     interview.Summary,
	}

	// the related rows only decorate the response
	if applicant, err := s.applicantRepo.FindByID(interview.ApplicantID); err == nil {
		if user, err := s.userRepo.FindByID(applicant.UserID); err == nil {
			resp.ApplicantEmail = user.Email
		}
	}
	if job, err := s.jobRepo.FindByID(interview.JobID); err == nil {
		resp.JobTitle = job.Title
		resp.JobBrief = job.Brief
	}

	return resp, nil
}

func (s *interviewService) Results(applicantID uuid.UUID) ([]models.InterviewResult, error) {
	interviews, err := s.interviewRepo.FindByApplicant(applicantID)
	if err != nil {
		return nil, err
	}

	results := make([]models.InterviewResult, 0, len(interviews))
	for _, interview := range interviews {
		results = append(results, models.InterviewResult{
			InterviewID: interview.ID.String(),
			JobID:       interview.JobID.String(),
			Status:      string(interview.Status),
			Evaluations: interview.Evaluations,
			Summary:     interview.Summary,
		})
	}

	return results, nil
}

// LoadPlan resolves the job and the applicant's latest processed CV.
func (s *interviewService) LoadPlan(interview *models.Interview) (*InterviewPlan, error) {
	job, err := s.jobRepo.FindByID(interview.JobID)
	if err != nil {
		return nil, err
	}

	cv, err := s.cvRepo.FindLatestReady(interview.ApplicantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionsNotReady
		}
		return nil, err
	}
	if !cv.Ready() {
		return nil, ErrQuestionsNotReady
	}

	return &InterviewPlan{
		Interview: interview,
		Job:       job,
		CV:        cv,
		Questions: []string(cv.GeneratedQuestions),
	}, nil
}

// QuestionAudio synthesizes question index (1-based) outside a live session.
func (s *interviewService) QuestionAudio(ctx context.Context, interviewID uuid.UUID, index int) (*models.QuestionAudioResponse, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	plan, err := s.LoadPlan(interview)
	if err != nil {
		return nil, err
	}

	if index < 1 || index > len(plan.Questions) {
		return nil, fmt.Errorf("%w: %d of %d", ErrQuestionIndex, index, len(plan.Questions))
	}
	question := plan.Questions[index-1]

	audio, err := s.tts.Synthesize(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize question: %w", err)
	}

	return &models.QuestionAudioResponse{
		Index:    index,
		Question: question,
		Audio:    base64.StdEncoding.EncodeToString(audio.Data),
		MimeType: audio.MimeType,
	}, nil
}
