package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobOpen   JobStatus = "Open"
	JobClosed JobStatus = "Closed"
)

func (s JobStatus) Valid() bool {
	return s == JobOpen || s == JobClosed
}

type Job struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Brief        string    `gorm:"type:text" json:"brief"`
	Requirements string    `gorm:"type:text" json:"requirements"`
	Status       JobStatus `gorm:"type:text;not null" json:"status"`
	CreatedBy    uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

type Applicant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_applicant_user_job,unique" json:"user_id"`
	JobID     uuid.UUID `gorm:"type:uuid;not null;index:idx_applicant_user_job,unique" json:"job_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Applicant) TableName() string {
	return "applicants"
}
