package models

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type JobCreateRequest struct {
	Title        string    `json:"title"`
	Brief        string    `json:"brief"`
	Requirements string    `json:"requirements"`
	Status       JobStatus `json:"status"`
}

// JobUpdateRequest is a partial update; nil fields are left untouched.
type JobUpdateRequest struct {
	Title        *string    `json:"title"`
	Brief        *string    `json:"brief"`
	Requirements *string    `json:"requirements"`
	Status       *JobStatus `json:"status"`
}

func (r *JobUpdateRequest) Empty() bool {
	return r.Title == nil && r.Brief == nil && r.Requirements == nil && r.Status == nil
}

type ApplicantCreateRequest struct {
	UserID string `json:"user_id"`
}

type CVUploadResponse struct {
	ID               string `json:"id"`
	ApplicantID      string `json:"applicant_id"`
	Filename         string `json:"filename"`
	OriginalName     string `json:"original_name"`
	ProcessingStatus string `json:"processing_status"`
}

type InterviewCreateRequest struct {
	JobID string `json:"job_id"`
}

type InterviewDetailResponse struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	ApplicantID    string            `json:"applicant_id"`
	ApplicantEmail string            `json:"applicant_email"`
	JobID          string            `json:"job_id"`
	JobTitle       string            `json:"job_title"`
	JobBrief       string            `json:"job_brief"`
	Transcript     Transcript        `json:"transcript"`
	Evaluations    Evaluations       `json:"evaluations"`
	Summary        *InterviewSummary `json:"summary,omitempty"`
}

type InterviewResult struct {
	InterviewID string            `json:"interview_id"`
	JobID       string            `json:"job_id"`
	Status      string            `json:"status"`
	Evaluations Evaluations       `json:"evaluations"`
	Summary     *InterviewSummary `json:"summary,omitempty"`
}

type ApplicantHistoryResponse struct {
	Applicant  *Applicant  `json:"applicant"`
	CVs        []CV        `json:"cvs"`
	Interviews []Interview `json:"interviews"`
}

type QuestionAudioResponse struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Audio    string `json:"audio"`
	MimeType string `json:"mime_type"`
}

type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
}
