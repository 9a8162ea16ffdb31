package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
)

type ApplicantHandler struct {
	access        applicantAccess
	applicantRepo repositories.ApplicantRepository
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	cvRepo        repositories.CVRepository
	interviewRepo repositories.InterviewRepository
	logger        *zap.Logger
}

func NewApplicantHandler(
	applicantRepo repositories.ApplicantRepository,
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	cvRepo repositories.CVRepository,
	interviewRepo repositories.InterviewRepository,
	logger *zap.Logger,
) *ApplicantHandler {
	return &ApplicantHandler{
		access:        applicantAccess{applicantRepo: applicantRepo},
		applicantRepo: applicantRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		cvRepo:        cvRepo,
		interviewRepo: interviewRepo,
		logger:        logger,
	}
}

// HandleCreate registers a user as an applicant for an open job. Users apply
// for themselves; admins may pass user_id to register someone else.
func (h *ApplicantHandler) HandleCreate(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.ApplicantCreateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	user := currentUser(c)
	userID := user.ID
	if req.UserID != "" {
		requested, err := uuid.Parse(req.UserID)
		if err != nil {
			return respondError(c, errInvalidID)
		}
		if requested != user.ID && !user.IsAdmin() {
			return respondError(c, errForbidden)
		}
		if _, err := h.userRepo.FindByID(requested); err != nil {
			return respondError(c, err)
		}
		userID = requested
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return respondError(c, err)
	}
	if job.Status != models.JobOpen {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "job is closed",
		})
	}

	_, err = h.applicantRepo.FindByUserAndJob(userID, jobID)
	switch {
	case err == nil:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "already applied to this job",
		})
	case !errors.Is(err, repositories.ErrNotFound):
		return respondError(c, err)
	}

	now := time.Now()
	applicant := &models.Applicant{
		ID:        uuid.New(),
		UserID:    userID,
		JobID:     jobID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.applicantRepo.Create(applicant); err != nil {
		h.logger.Error("Failed to create applicant", zap.Error(err))
		return respondError(c, err)
	}

	h.logger.Info("Applicant registered",
		zap.String("applicant_id", applicant.ID.String()),
		zap.String("job_id", jobID.String()),
	)
	return c.Status(fiber.StatusCreated).JSON(applicant)
}

func (h *ApplicantHandler) HandleDelete(c *fiber.Ctx) error {
	jobID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	applicant, err := h.access.load(c, "applicantId")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.applicantRepo.Delete(jobID, applicant.ID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ApplicantHandler) HandleHistory(c *fiber.Ctx) error {
	applicant, err := h.access.load(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	cvs, err := h.cvRepo.FindByApplicant(applicant.ID)
	if err != nil {
		return respondError(c, err)
	}

	interviews, err := h.interviewRepo.FindByApplicant(applicant.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.ApplicantHistoryResponse{
		Applicant:  applicant,
		CVs:        cvs,
		Interviews: interviews,
	})
}
