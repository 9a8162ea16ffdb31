package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindByApplicant(applicantID uuid.UUID) ([]models.Interview, error)
	MarkInProgress(id uuid.UUID, startedAt time.Time) error
	SaveProgress(id uuid.UUID, progress *InterviewProgress) error
	MarkCompleted(id uuid.UUID, progress *InterviewProgress, summary *models.InterviewSummary) error
}

// InterviewProgress is the session state written after every answered question.
type InterviewProgress struct {
	Transcript  models.Transcript
	Evaluations models.Evaluations
	Media       models.MediaItems
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("interview not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindByApplicant(applicantID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find interviews: %w", err)
	}
	return interviews, nil
}

// MarkInProgress starts a fresh run: earlier partial progress is discarded.
// Completed interviews are never reopened.
func (r *interviewRepository) MarkInProgress(id uuid.UUID, startedAt time.Time) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status <> ?", id, models.InterviewCompleted).
		Updates(map[string]interface{}{
			"status":      models.InterviewInProgress,
			"transcript":  models.Transcript{},
			"evaluations": models.Evaluations{},
			"media":       models.MediaItems{},
			"started_at":  startedAt,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to start interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found or completed: %w", ErrNotFound)
	}

	return nil
}

func (r *interviewRepository) SaveProgress(id uuid.UUID, progress *InterviewProgress) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"transcript":  progress.Transcript,
			"evaluations": progress.Evaluations,
			"media":       progress.Media,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save interview progress: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found: %w", ErrNotFound)
	}

	return nil
}

func (r *interviewRepository) MarkCompleted(id uuid.UUID, progress *InterviewProgress, summary *models.InterviewSummary) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.InterviewCompleted,
			"transcript":   progress.Transcript,
			"evaluations":  progress.Evaluations,
			"media":        progress.Media,
			"summary":      summary,
			"completed_at": summary.CompletedAt,
			"updated_at":   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to complete interview: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("interview not found: %w", ErrNotFound)
	}

	return nil
}
