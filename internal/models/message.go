package models

// Frame types exchanged on the live interview socket.
const (
	MessageStatus     = "status"
	MessageQuestion   = "question"
	MessageEvaluation = "evaluation"
	MessageError      = "error"
	MessagePong       = "pong"

	MessageAudio      = "audio"
	MessageAudioChunk = "audio_chunk"
	MessageAudioEnd   = "audio_end"
	MessageText       = "text"
	MessagePing       = "ping"
)

// ClientMessage is anything the candidate's client sends.
type ClientMessage struct {
	Type     string `json:"type"`
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Text     string `json:"text,omitempty"`
}

type StatusMessage struct {
	Type           string            `json:"type"`
	Message        string            `json:"message"`
	InterviewID    string            `json:"interview_id,omitempty"`
	TotalQuestions int               `json:"total_questions,omitempty"`
	Summary        *InterviewSummary `json:"summary,omitempty"`
}

type QuestionMessage struct {
	Type     string `json:"type"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Question string `json:"question"`
	Audio    string `json:"audio,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type EvaluationMessage struct {
	Type       string           `json:"type"`
	Index      int              `json:"index"`
	Answer     string           `json:"answer"`
	Evaluation AnswerEvaluation `json:"evaluation"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Index   int    `json:"index,omitempty"`
}
