package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/config"
	"alfredoptarigan/ai-interview-platform/internal/metrics"
	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

// WebSocket frame opcodes as reported by SessionConn.ReadMessage.
const (
	TextFrame   = 1
	BinaryFrame = 2
)

var (
	ErrAnswerTimeout    = errors.New("answer timeout")
	ErrConnectionClosed = errors.New("connection closed")
	ErrAnswerTooLarge   = errors.New("answer too large")
)

// SessionConn is the subset of a WebSocket connection the orchestrator drives.
type SessionConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	SetReadDeadline(t time.Time) error
}

type PlanLoader interface {
	LoadPlan(interview *models.Interview) (*InterviewPlan, error)
}

// InterviewOrchestrator runs one live interview over a connection: for each
// question it speaks the question, waits for one answer, transcribes it,
// evaluates it and persists the progress.
type InterviewOrchestrator struct {
	interviews repositories.InterviewRepository
	plans      PlanLoader
	locker     SessionLocker
	tts        TextToSpeech
	stt        SpeechToText
	evaluator  AnswerEvaluator
	storage    StorageService
	cfg        config.InterviewConfig
	logger     *zap.Logger
}

func NewInterviewOrchestrator(
	interviews repositories.InterviewRepository,
	plans PlanLoader,
	locker SessionLocker,
	tts TextToSpeech,
	stt SpeechToText,
	evaluator AnswerEvaluator,
	storage StorageService,
	cfg config.InterviewConfig,
	logger *zap.Logger,
) *InterviewOrchestrator {
	return &InterviewOrchestrator{
		interviews: interviews,
		plans:      plans,
		locker:     locker,
		tts:        tts,
		stt:        stt,
		evaluator:  evaluator,
		storage:    storage,
		cfg:        cfg,
		logger:     logger,
	}
}

// answer is one candidate reply: either recorded audio or typed text.
type answer struct {
	Audio    []byte
	MimeType string
	Text     string
}

type session struct {
	conn     SessionConn
	plan     *InterviewPlan
	progress repositories.InterviewProgress
	logger   *zap.Logger
}

// Run drives the session to completion. The returned error describes why the
// session ended early; the caller only needs to close the connection.
func (o *InterviewOrchestrator) Run(ctx context.Context, interviewID uuid.UUID, conn SessionConn) (err error) {
	log := o.logger.With(zap.String("interview_id", interviewID.String()))
	outcome := "failed"
	defer func() {
		metrics.InterviewSessions.WithLabelValues(outcome).Inc()
	}()

	interview, err := o.interviews.FindByID(interviewID)
	if err != nil {
		outcome = "rejected"
		if errors.Is(err, repositories.ErrNotFound) {
			o.sendError(conn, "Interview not found", 0)
		} else {
			o.sendError(conn, "Failed to load interview", 0)
		}
		return err
	}

	if interview.Status == models.InterviewCompleted {
		outcome = "rejected"
		o.sendError(conn, "Interview already completed", 0)
		return fmt.Errorf("interview %s already completed", interviewID)
	}

	release, err := o.locker.Acquire(ctx, interviewID)
	if err != nil {
		outcome = "rejected"
		if errors.Is(err, ErrSessionBusy) {
			o.sendError(conn, "Interview session already in progress", 0)
		} else {
			o.sendError(conn, "Failed to start interview", 0)
		}
		return err
	}
	defer release()

	plan, err := o.plans.LoadPlan(interview)
	if err != nil {
		outcome = "rejected"
		if errors.Is(err, ErrQuestionsNotReady) {
			o.sendError(conn, "Interview questions are not ready", 0)
		} else {
			o.sendError(conn, "Failed to load interview questions", 0)
		}
		return err
	}

	if err := o.interviews.MarkInProgress(interviewID, time.Now().UTC()); err != nil {
		o.sendError(conn, "Failed to start interview", 0)
		return err
	}

	metrics.InterviewSessionsActive.Inc()
	defer metrics.InterviewSessionsActive.Dec()

	stopWatch := watchContext(ctx, conn)
	defer stopWatch()

	s := &session{
		conn: conn,
		plan: plan,
		progress: repositories.InterviewProgress{
			Transcript:  models.Transcript{},
			Evaluations: models.Evaluations{},
			Media:       models.MediaItems{},
		},
		logger: log,
	}

	log.Info("🎙️ Interview session started", zap.Int("questions", len(plan.Questions)))

	if err := conn.WriteJSON(models.StatusMessage{
		Type:           models.MessageStatus,
		Message:        "Interview started",
		InterviewID:    interviewID.String(),
		TotalQuestions: len(plan.Questions),
	}); err != nil {
		outcome = "abandoned"
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}

	for i, question := range plan.Questions {
		if ctx.Err() != nil {
			outcome = "canceled"
			return ctx.Err()
		}

		if err := o.runQuestion(ctx, s, i+1, question); err != nil {
			outcome = classifyEnd(ctx, err)
			switch {
			case errors.Is(err, ErrAnswerTimeout):
				o.sendError(conn, "Answer timeout", i+1)
			case errors.Is(err, ErrAnswerTooLarge):
				o.sendError(conn, "Answer too large", i+1)
			}
			log.Info("Interview session ended early",
				zap.String("outcome", outcome),
				zap.Int("question_index", i+1),
				zap.Error(err))
			return err
		}
	}

	summary := o.summarize(ctx, s)

	if err := o.interviews.MarkCompleted(interviewID, &s.progress, summary); err != nil {
		o.sendError(conn, "Failed to complete interview", 0)
		return err
	}

	outcome = "completed"
	log.Info("✅ Interview session completed",
		zap.Int("answered", summary.Answered),
		zap.Float64("average_score", summary.AverageScore))

	_ = conn.WriteJSON(models.StatusMessage{
		Type:        models.MessageStatus,
		Message:     "Interview completed",
		InterviewID: interviewID.String(),
		Summary:     summary,
	})

	return nil
}

func (o *InterviewOrchestrator) runQuestion(ctx context.Context, s *session, index int, question string) error {
	if err := o.ask(ctx, s, index, question); err != nil {
		return err
	}

	ans, err := o.awaitAnswer(ctx, s, index)
	if err != nil {
		return err
	}

	text, err := o.resolveAnswer(ctx, s, index, ans)
	if err != nil {
		return err
	}
	if text == "" {
		metrics.InterviewQuestions.WithLabelValues("skipped").Inc()
		o.persist(s)
		return nil
	}

	s.progress.Transcript = append(s.progress.Transcript, models.TranscriptEntry{
		QuestionIndex: index,
		Question:      question,
		Answer:        text,
		Timestamp:     time.Now().UTC(),
	})

	eval := o.evaluator.Evaluate(ctx, EvaluationInput{
		QuestionIndex: index,
		Question:      question,
		Answer:        text,
		JobTitle:      s.plan.Job.Title,
		ParsedCV:      s.plan.CV.ParsedFields,
	})
	s.progress.Evaluations = append(s.progress.Evaluations, eval)

	result := "evaluated"
	if eval.Failed() {
		result = "evaluation_failed"
	}
	metrics.InterviewQuestions.WithLabelValues(result).Inc()

	if err := s.conn.WriteJSON(models.EvaluationMessage{
		Type:       models.MessageEvaluation,
		Index:      index,
		Answer:     text,
		Evaluation: eval,
	}); err != nil {
		o.persist(s)
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}

	o.persist(s)
	return nil
}

// ask sends the question frame. Missing audio does not stop the session.
func (o *InterviewOrchestrator) ask(ctx context.Context, s *session, index int, question string) error {
	msg := models.QuestionMessage{
		Type:     models.MessageQuestion,
		Index:    index,
		Total:    len(s.plan.Questions),
		Question: question,
	}

	audio, err := o.tts.Synthesize(ctx, question)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("⚠️  Question audio unavailable", zap.Int("question_index", index), zap.Error(err))
	} else {
		msg.Audio = base64.StdEncoding.EncodeToString(audio.Data)
		msg.MimeType = audio.MimeType
		o.saveMedia(s, models.MediaQuestionAudio, index, audio.Data, audio.MimeType)
	}

	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return nil
}

// awaitAnswer reads frames until one complete answer arrives or the answer
// timeout elapses. Pings and malformed frames do not count as answers.
func (o *InterviewOrchestrator) awaitAnswer(ctx context.Context, s *session, index int) (*answer, error) {
	if err := s.conn.SetReadDeadline(time.Now().Add(o.cfg.AnswerTimeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var (
		chunks   []byte
		mimeType string
	)

	appendChunk := func(data []byte) error {
		if o.cfg.MaxAnswerBytes > 0 && len(chunks)+len(data) > o.cfg.MaxAnswerBytes {
			return ErrAnswerTooLarge
		}
		chunks = append(chunks, data...)
		return nil
	}

	for {
		frameType, payload, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if isTimeout(err) {
				return nil, ErrAnswerTimeout
			}
			return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
		}

		if frameType == BinaryFrame {
			if err := appendChunk(payload); err != nil {
				return nil, err
			}
			continue
		}

		var msg models.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			o.sendError(s.conn, "Invalid message format", index)
			continue
		}

		switch msg.Type {
		case models.MessagePing:
			if err := s.conn.WriteJSON(map[string]string{"type": models.MessagePong}); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
			}

		case models.MessageAudio:
			data, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				o.sendError(s.conn, "Invalid audio data", index)
				continue
			}
			if err := appendChunk(data); err != nil {
				return nil, err
			}
			return &answer{Audio: chunks, MimeType: msg.MimeType}, nil

		case models.MessageAudioChunk:
			data, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				o.sendError(s.conn, "Invalid audio data", index)
				continue
			}
			if err := appendChunk(data); err != nil {
				return nil, err
			}
			if msg.MimeType != "" {
				mimeType = msg.MimeType
			}

		case models.MessageAudioEnd:
			if msg.MimeType != "" {
				mimeType = msg.MimeType
			}
			return &answer{Audio: chunks, MimeType: mimeType}, nil

		case models.MessageText:
			return &answer{Text: msg.Text}, nil

		default:
			o.sendError(s.conn, fmt.Sprintf("Unsupported message type: %s", msg.Type), index)
		}
	}
}

// resolveAnswer turns the reply into text. An empty result means the
// question is skipped without evaluation.
func (o *InterviewOrchestrator) resolveAnswer(ctx context.Context, s *session, index int, ans *answer) (string, error) {
	if text := strings.TrimSpace(ans.Text); text != "" {
		return text, nil
	}

	if len(ans.Audio) == 0 {
		o.sendError(s.conn, "No audio received", index)
		return "", nil
	}

	mimeType := normalizeMimeType(ans.MimeType)
	o.saveMedia(s, models.MediaAnswerAudio, index, ans.Audio, mimeType)

	text, err := o.stt.Transcribe(ctx, ans.Audio, mimeType)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		s.logger.Warn("❌ Transcription failed", zap.Int("question_index", index), zap.Error(err))
		o.sendError(s.conn, "Failed to transcribe audio", index)
		return "", nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		o.sendError(s.conn, "No audio received", index)
	}
	return text, nil
}

func (o *InterviewOrchestrator) summarize(ctx context.Context, s *session) *models.InterviewSummary {
	summary := &models.InterviewSummary{
		TotalQuestions: len(s.plan.Questions),
		Answered:       len(s.progress.Transcript),
		CompletedAt:    time.Now().UTC(),
	}

	var total float64
	for _, eval := range s.progress.Evaluations {
		if eval.Failed() {
			continue
		}
		summary.Evaluated++
		total += eval.Score
	}
	if summary.Evaluated > 0 {
		summary.AverageScore = total / float64(summary.Evaluated)
	}

	if o.cfg.GenerateSummary && summary.Answered > 0 {
		overall, err := o.evaluator.Summarize(ctx, s.plan.Job.Title, s.progress.Transcript, s.progress.Evaluations, summary.AverageScore)
		if err != nil {
			s.logger.Warn("⚠️  Failed to generate interview summary", zap.Error(err))
		} else {
			summary.Overall = overall
		}
	}

	return summary
}

func (o *InterviewOrchestrator) saveMedia(s *session, mediaType models.MediaType, index int, data []byte, mimeType string) {
	prefix := fmt.Sprintf("%s_%s_q%d", s.plan.Interview.ID, mediaType, index)
	path, err := o.storage.SaveBytes(data, prefix, extensionForMime(mimeType))
	if err != nil {
		s.logger.Warn("Failed to store media", zap.String("type", string(mediaType)), zap.Error(err))
		return
	}

	s.progress.Media = append(s.progress.Media, models.MediaItem{
		Type:          mediaType,
		QuestionIndex: index,
		URL:           path,
		MimeType:      mimeType,
		Timestamp:     time.Now().UTC(),
	})
}

func (o *InterviewOrchestrator) persist(s *session) {
	if err := o.interviews.SaveProgress(s.plan.Interview.ID, &s.progress); err != nil {
		s.logger.Error("Failed to persist interview progress", zap.Error(err))
	}
}

func (o *InterviewOrchestrator) sendError(conn SessionConn, message string, index int) {
	if err := conn.WriteJSON(models.ErrorMessage{
		Type:    models.MessageError,
		Message: message,
		Index:   index,
	}); err != nil {
		o.logger.Debug("Failed to send error frame", zap.String("message", message), zap.Error(err))
	}
}

// watchContext unblocks a pending read once ctx is done.
func watchContext(ctx context.Context, conn SessionConn) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()
	return func() { close(done) }
}

func classifyEnd(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, ErrAnswerTimeout):
		return "timeout"
	case errors.Is(err, ErrConnectionClosed):
		return "abandoned"
	default:
		return "failed"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
