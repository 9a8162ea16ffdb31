package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

type CVHandler struct {
	access         applicantAccess
	cvRepo         repositories.CVRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
	logger         *zap.Logger
}

func NewCVHandler(
	applicantRepo repositories.ApplicantRepository,
	cvRepo repositories.CVRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
	logger *zap.Logger,
) *CVHandler {
	return &CVHandler{
		access:         applicantAccess{applicantRepo: applicantRepo},
		cvRepo:         cvRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

func (h *CVHandler) HandleUpload(c *fiber.Ctx) error {
	applicant, err := h.access.load(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	file, err := h.formFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, "cv")
	if err != nil {
		h.logger.Warn("Failed to save CV file", zap.Error(err))
		return respondError(c, err)
	}

	now := time.Now()
	cv := &models.CV{
		ID:                 uuid.New(),
		ApplicantID:        applicant.ID,
		Filename:           filename,
		OriginalFileName:   file.Filename,
		FilePath:           filePath,
		ParsedFields:       models.JSONMap{},
		GeneratedQuestions: models.StringList{},
		ProcessingStatus:   models.StatusQueued,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := h.cvRepo.Create(cv); err != nil {
		// Cleanup uploaded file if database insert fails
		_ = h.storageService.DeleteFile(filename)
		h.logger.Error("Failed to create CV record", zap.Error(err))
		return respondError(c, err)
	}

	h.worker.EnqueueJob(cv.ID)
	h.logger.Info("CV queued",
		zap.String("cv_id", cv.ID.String()),
		zap.String("applicant_id", applicant.ID.String()),
	)

	return c.Status(fiber.StatusAccepted).JSON(uploadResponse(cv))
}

func (h *CVHandler) HandleGet(c *fiber.Ctx) error {
	cv, err := h.loadCV(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cv)
}

// HandleReplace swaps the file behind an existing CV and reprocesses it.
// A CV that is being processed cannot be replaced until the run ends.
func (h *CVHandler) HandleReplace(c *fiber.Ctx) error {
	cv, err := h.loadCV(c)
	if err != nil {
		return respondError(c, err)
	}

	if cv.ProcessingStatus == models.StatusProcessing {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "cv is still processing",
		})
	}

	file, err := h.formFile(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(file, "cv")
	if err != nil {
		return respondError(c, err)
	}

	err = h.cvRepo.ReplaceFile(cv.ID, &repositories.CVFileData{
		Filename:         filename,
		OriginalFileName: file.Filename,
		FilePath:         filePath,
	})
	if err != nil {
		_ = h.storageService.DeleteFile(filename)
		return respondError(c, err)
	}

	if err := h.storageService.DeleteFile(cv.Filename); err != nil {
		h.logger.Warn("Failed to delete replaced CV file", zap.String("file", cv.Filename), zap.Error(err))
	}

	cv.Filename = filename
	cv.OriginalFileName = file.Filename
	cv.FilePath = filePath
	cv.ProcessingStatus = models.StatusQueued

	h.worker.EnqueueJob(cv.ID)
	return c.Status(fiber.StatusAccepted).JSON(uploadResponse(cv))
}

func (h *CVHandler) HandleDelete(c *fiber.Ctx) error {
	cv, err := h.loadCV(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.cvRepo.Delete(cv.ApplicantID, cv.ID); err != nil {
		return respondError(c, err)
	}

	if err := h.storageService.DeleteFile(cv.Filename); err != nil {
		h.logger.Warn("Failed to delete CV file", zap.String("file", cv.Filename), zap.Error(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CVHandler) HandleReprocess(c *fiber.Ctx) error {
	cv, err := h.loadCV(c)
	if err != nil {
		return respondError(c, err)
	}

	if cv.ProcessingStatus == models.StatusProcessing || cv.ProcessingStatus == models.StatusQueued {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "cv is already " + string(cv.ProcessingStatus),
		})
	}

	if err := h.cvRepo.UpdateStatus(cv.ID, models.StatusQueued); err != nil {
		return respondError(c, err)
	}
	cv.ProcessingStatus = models.StatusQueued

	h.worker.EnqueueJob(cv.ID)
	return c.Status(fiber.StatusAccepted).JSON(uploadResponse(cv))
}

// loadCV returns the CV only when it belongs to the applicant in the path.
func (h *CVHandler) loadCV(c *fiber.Ctx) (*models.CV, error) {
	applicant, err := h.access.load(c, "id")
	if err != nil {
		return nil, err
	}

	cvID, err := paramUUID(c, "cvId")
	if err != nil {
		return nil, err
	}

	cv, err := h.cvRepo.FindByID(cvID)
	if err != nil {
		return nil, err
	}
	if cv.ApplicantID != applicant.ID {
		return nil, fmt.Errorf("cv not found: %w", repositories.ErrNotFound)
	}
	return cv, nil
}

func (h *CVHandler) formFile(c *fiber.Ctx) (*multipart.FileHeader, error) {
	file, err := c.FormFile("cv")
	if err != nil {
		return nil, errors.New("cv file is required")
	}

	if file.Size > h.maxFileSize {
		return nil, fmt.Errorf("CV file too large. Max size: %d bytes", h.maxFileSize)
	}
	return file, nil
}

func uploadResponse(cv *models.CV) models.CVUploadResponse {
	return models.CVUploadResponse{
		ID:               cv.ID.String(),
		ApplicantID:      cv.ApplicantID.String(),
		Filename:         cv.Filename,
		OriginalName:     cv.OriginalFileName,
		ProcessingStatus: string(cv.ProcessingStatus),
	}
}
