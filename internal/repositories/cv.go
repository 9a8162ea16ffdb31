package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ai-interview-platform/internal/models"
)

type CVRepository interface {
	Create(cv *models.CV) error
	FindByID(id uuid.UUID) (*models.CV, error)
	FindByApplicant(applicantID uuid.UUID) ([]models.CV, error)
	FindLatestReady(applicantID uuid.UUID) (*models.CV, error)
	ReplaceFile(id uuid.UUID, data *CVFileData) error
	UpdateStatus(id uuid.UUID, status models.ProcessingStatus) error
	UpdateResult(id uuid.UUID, parsed models.JSONMap, questions []string) error
	UpdateError(id uuid.UUID, errorMsg string) error
	Delete(applicantID, id uuid.UUID) error
	FindPendingJobs(limit int) ([]models.CV, error)
}

type CVFileData struct {
	Filename         string
	OriginalFileName string
	FilePath         string
}

type cvRepository struct {
	db *gorm.DB
}

func NewCVRepository(db *gorm.DB) CVRepository {
	return &cvRepository{db: db}
}

func (r *cvRepository) Create(cv *models.CV) error {
	if err := r.db.Create(cv).Error; err != nil {
		return fmt.Errorf("failed to create cv: %w", err)
	}
	return nil
}

func (r *cvRepository) FindByID(id uuid.UUID) (*models.CV, error) {
	var cv models.CV
	if err := r.db.Where("id = ?", id).First(&cv).Error; err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("cv not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cv: %w", err)
	}
	return &cv, nil
}

func (r *cvRepository) FindByApplicant(applicantID uuid.UUID) ([]models.CV, error) {
	var cvs []models.CV
	err := r.db.
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&cvs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cvs: %w", err)
	}
	return cvs, nil
}

// FindLatestReady returns the newest processed CV of the applicant.
func (r *cvRepository) FindLatestReady(applicantID uuid.UUID) (*models.CV, error) {
	var cv models.CV
	err := r.db.
		Where("applicant_id = ? AND processing_status = ?", applicantID, models.StatusCompleted).
		Order("updated_at DESC").
		First(&cv).Error
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("no processed cv: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cv: %w", err)
	}
	return &cv, nil
}

// ReplaceFile points the CV at a new upload and queues it for processing again.
func (r *cvRepository) ReplaceFile(id uuid.UUID, data *CVFileData) error {
	result := r.db.Model(&models.CV{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"filename":            data.Filename,
			"original_file_name":  data.OriginalFileName,
			"file_path":           data.FilePath,
			"processing_status":   models.StatusQueued,
			"parsed_fields":       models.JSONMap{},
			"generated_questions": models.StringList{},
			"error_message":       nil,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to replace cv file: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", ErrNotFound)
	}

	return nil
}

func (r *cvRepository) UpdateStatus(id uuid.UUID, status models.ProcessingStatus) error {
	result := r.db.Model(&models.CV{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": status,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", ErrNotFound)
	}

	return nil
}

func (r *cvRepository) UpdateResult(id uuid.UUID, parsed models.JSONMap, questions []string) error {
	result := r.db.Model(&models.CV{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status":   models.StatusCompleted,
			"parsed_fields":       parsed,
			"generated_questions": models.StringList(questions),
			"error_message":       nil,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", ErrNotFound)
	}

	return nil
}

func (r *cvRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.CV{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processing_status": models.StatusFailed,
			"error_message":     errorMsg,
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", ErrNotFound)
	}

	return nil
}

func (r *cvRepository) Delete(applicantID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND applicant_id = ?", id, applicantID).Delete(&models.CV{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cv: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("cv not found: %w", ErrNotFound)
	}

	return nil
}

func (r *cvRepository) FindPendingJobs(limit int) ([]models.CV, error) {
	var cvs []models.CV
	err := r.db.
		Where("processing_status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&cvs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending cvs: %w", err)
	}

	return cvs, nil
}
