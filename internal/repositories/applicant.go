package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

type ApplicantRepository interface {
	Create(applicant *models.Applicant) error
	FindByID(id uuid.UUID) (*models.Applicant, error)
	FindByUserAndJob(userID, jobID uuid.UUID) (*models.Applicant, error)
	Delete(jobID, id uuid.UUID) error
}

type applicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) Create(applicant *models.Applicant) error {
	if err := r.db.Create(applicant).Error; err != nil {
		return fmt.Errorf("failed to create applicant: %w", err)
	}
	return nil
}

func (r *applicantRepository) FindByID(id uuid.UUID) (*models.Applicant, error) {
	var applicant models.Applicant
	if err := r.db.Where("id = ?", id).First(&applicant).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("applicant not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}
	return &applicant, nil
}

func (r *applicantRepository) FindByUserAndJob(userID, jobID uuid.UUID) (*models.Applicant, error) {
	var applicant models.Applicant
	err := r.db.
		Where("user_id = ? AND job_id = ?", userID, jobID).
		First(&applicant).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("applicant not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find applicant: %w", err)
	}
	return &applicant, nil
}

func (r *applicantRepository) Delete(jobID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND job_id = ?", id, jobID).Delete(&models.Applicant{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete applicant: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("applicant not found: %w", ErrNotFound)
	}

	return nil
}
