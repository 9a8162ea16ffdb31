package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

type InterviewHandler struct {
	access     applicantAccess
	interviews services.InterviewService
	logger     *zap.Logger
}

func NewInterviewHandler(applicantRepo repositories.ApplicantRepository, interviews services.InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		access:     applicantAccess{applicantRepo: applicantRepo},
		interviews: interviews,
		logger:     logger,
	}
}

func (h *InterviewHandler) HandleCreate(c *fiber.Ctx) error {
	applicant, err := h.access.load(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.InterviewCreateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	jobID := uuid.Nil
	if req.JobID != "" {
		if jobID, err = uuid.Parse(req.JobID); err != nil {
			return respondError(c, errInvalidID)
		}
	}

	interview, err := h.interviews.Create(applicant.ID, jobID)
	if err != nil {
		return respondError(c, err)
	}

	h.logger.Info("Interview created",
		zap.String("interview_id", interview.ID.String()),
		zap.String("applicant_id", applicant.ID.String()),
	)
	return c.Status(fiber.StatusCreated).JSON(interview)
}

func (h *InterviewHandler) HandleDetail(c *fiber.Ctx) error {
	interview, err := h.access.interview(c, h.interviews, "id")
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.interviews.Detail(interview.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

func (h *InterviewHandler) HandleResults(c *fiber.Ctx) error {
	applicant, err := h.access.load(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	results, err := h.interviews.Results(applicant.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"applicant_id": applicant.ID,
		"results":      results,
	})
}
