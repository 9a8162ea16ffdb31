package handlers

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

// SpeechHandler exposes question playback and one-off transcription outside
// of a live session, for clients that drive the interview themselves.
type SpeechHandler struct {
	access     applicantAccess
	interviews services.InterviewService
	stt        services.SpeechToText
	maxBytes   int64
	logger     *zap.Logger
}

func NewSpeechHandler(
	applicantRepo repositories.ApplicantRepository,
	interviews services.InterviewService,
	stt services.SpeechToText,
	maxBytes int64,
	logger *zap.Logger,
) *SpeechHandler {
	return &SpeechHandler{
		access:     applicantAccess{applicantRepo: applicantRepo},
		interviews: interviews,
		stt:        stt,
		maxBytes:   maxBytes,
		logger:     logger,
	}
}

func (h *SpeechHandler) HandleQuestionAudio(c *fiber.Ctx) error {
	interview, err := h.access.interview(c, h.interviews, "id")
	if err != nil {
		return respondError(c, err)
	}

	index, err := strconv.Atoi(c.Query("index", "1"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "index must be a number",
		})
	}

	resp, err := h.interviews.QuestionAudio(c.UserContext(), interview.ID, index)
	if err != nil {
		h.logger.Warn("Question audio failed",
			zap.String("interview_id", interview.ID.String()),
			zap.Int("index", index),
			zap.Error(err),
		)
		return respondError(c, err)
	}
	return c.JSON(resp)
}

func (h *SpeechHandler) HandleTranscribe(c *fiber.Ctx) error {
	if _, err := h.access.interview(c, h.interviews, "id"); err != nil {
		return respondError(c, err)
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file is required",
		})
	}
	if file.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio file is empty",
		})
	}
	if file.Size > h.maxBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "audio file too large",
		})
	}

	f, err := file.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return respondError(c, err)
	}

	text, err := h.stt.Transcribe(c.UserContext(), data, file.Header.Get(fiber.HeaderContentType))
	if err != nil {
		h.logger.Error("Transcription failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to transcribe audio",
		})
	}

	return c.JSON(models.TranscriptionResponse{Transcription: text})
}
