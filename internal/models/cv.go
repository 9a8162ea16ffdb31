package models

import (
	"time"

	"github.com/google/uuid"
)

type ProcessingStatus string

const (
	StatusQueued     ProcessingStatus = "queued"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// CV is an uploaded resume plus whatever the LLM extracted from it.
type CV struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	ApplicantID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"applicant_id"`
	Filename           string           `gorm:"type:text" json:"filename"`
	OriginalFileName   string           `gorm:"type:text" json:"original_filename"`
	FilePath           string           `gorm:"type:text" json:"file_url"`
	ParsedFields       JSONMap          `gorm:"type:jsonb" json:"parsed_fields"`
	GeneratedQuestions StringList       `gorm:"type:jsonb" json:"generated_questions"`
	ProcessingStatus   ProcessingStatus `gorm:"type:text;not null" json:"processing_status"`
	ErrorMessage       *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (CV) TableName() string {
	return "cvs"
}

// Ready reports whether the CV can drive an interview.
func (c *CV) Ready() bool {
	return c.ProcessingStatus == StatusCompleted && len(c.GeneratedQuestions) > 0
}
