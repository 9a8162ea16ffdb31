package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewPending    InterviewStatus = "Pending"
	InterviewInProgress InterviewStatus = "InProgress"
	InterviewCompleted  InterviewStatus = "Completed"
)

type Interview struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	ApplicantID uuid.UUID         `gorm:"type:uuid;not null;index" json:"applicant_id"`
	JobID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"job_id"`
	Status      InterviewStatus   `gorm:"type:text;not null" json:"status"`
	Transcript  Transcript        `gorm:"type:jsonb" json:"transcript"`
	Evaluations Evaluations       `gorm:"type:jsonb" json:"evaluations"`
	Media       MediaItems        `gorm:"type:jsonb" json:"media"`
	Summary     *InterviewSummary `gorm:"type:jsonb" json:"summary,omitempty"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}

// TranscriptEntry is one answered question.
type TranscriptEntry struct {
	QuestionIndex int       `json:"question_index"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Timestamp     time.Time `json:"timestamp"`
}

// AnswerEvaluation holds the LLM verdict for one answer. When the model output
// cannot be used, Error and RawResponse are set instead of the scores.
type AnswerEvaluation struct {
	QuestionIndex int       `json:"question_index"`
	Sentiment     string    `json:"sentiment,omitempty"`
	Clarity       float64   `json:"clarity,omitempty"`
	Confidence    float64   `json:"confidence,omitempty"`
	Relevance     string    `json:"relevance,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	Score         float64   `json:"score,omitempty"`
	Error         string    `json:"error,omitempty"`
	RawResponse   string    `json:"raw_response,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func (e AnswerEvaluation) Failed() bool {
	return e.Error != ""
}

type MediaType string

const (
	MediaQuestionAudio MediaType = "question_audio"
	MediaAnswerAudio   MediaType = "answer_audio"
)

type MediaItem struct {
	Type          MediaType `json:"type"`
	QuestionIndex int       `json:"question_index"`
	URL           string    `json:"url"`
	MimeType      string    `json:"mime_type,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type InterviewSummary struct {
	TotalQuestions int       `json:"total_questions"`
	Answered       int       `json:"answered"`
	Evaluated      int       `json:"evaluated"`
	AverageScore   float64   `json:"average_score"`
	Overall        string    `json:"overall,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

type Transcript []TranscriptEntry

func (t Transcript) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return jsonValue(t)
}

func (t *Transcript) Scan(src interface{}) error { return jsonScan(src, t) }

type Evaluations []AnswerEvaluation

func (e Evaluations) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	return jsonValue(e)
}

func (e *Evaluations) Scan(src interface{}) error { return jsonScan(src, e) }

type MediaItems []MediaItem

func (m MediaItems) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	return jsonValue(m)
}

func (m *MediaItems) Scan(src interface{}) error { return jsonScan(src, m) }

func (s *InterviewSummary) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonValue(s)
}

func (s *InterviewSummary) Scan(src interface{}) error { return jsonScan(src, s) }
