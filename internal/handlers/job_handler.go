package handlers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

const indexTimeout = 2 * time.Minute

type JobHandler struct {
	jobRepo   repositories.JobRepository
	knowledge services.KnowledgeService
	locks     *jobLocks
	logger    *zap.Logger
}

func NewJobHandler(jobRepo repositories.JobRepository, knowledge services.KnowledgeService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobRepo:   jobRepo,
		knowledge: knowledge,
		locks:     newJobLocks(),
		logger:    logger,
	}
}

func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title is required",
		})
	}
	if req.Status == "" {
		req.Status = models.JobOpen
	}
	if !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be Open or Closed",
		})
	}

	now := time.Now()
	job := &models.Job{
		ID:           uuid.New(),
		Title:        req.Title,
		Brief:        req.Brief,
		Requirements: req.Requirements,
		Status:       req.Status,
		CreatedBy:    currentUser(c).ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.jobRepo.Create(job); err != nil {
		h.logger.Error("Failed to create job", zap.Error(err))
		return respondError(c, err)
	}

	h.reindex(job)
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(jobs)
}

func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(job)
}

func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req models.JobUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Empty() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no fields to update",
		})
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title cannot be empty",
		})
	}
	if req.Status != nil && !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status must be Open or Closed",
		})
	}

	job, err := h.jobRepo.Update(id, &req)
	if err != nil {
		return respondError(c, err)
	}

	h.reindex(job)
	return c.JSON(job)
}

func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.jobRepo.Delete(id); err != nil {
		return respondError(c, err)
	}

	h.background("remove", id, func(ctx context.Context) error {
		return h.knowledge.RemoveJob(ctx, id.String())
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// reindex refreshes the job's retrieval chunks without holding up the request.
// A job deleted in the meantime is skipped.
func (h *JobHandler) reindex(job *models.Job) {
	h.background("index", job.ID, func(ctx context.Context) error {
		if _, err := h.jobRepo.FindByID(job.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				h.logger.Debug("Skipping index of deleted job", zap.String("job_id", job.ID.String()))
				return nil
			}
			return err
		}
		return h.knowledge.IndexJob(ctx, job)
	})
}

func (h *JobHandler) background(op string, jobID uuid.UUID, fn func(ctx context.Context) error) {
	go func() {
		unlock := h.locks.lock(jobID)
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			h.logger.Warn("Job knowledge "+op+" failed",
				zap.String("job_id", jobID.String()),
				zap.Error(err),
			)
		}
	}()
}

// jobLocks serializes knowledge writes per job. Entries are dropped once no
// goroutine holds or waits on them.
type jobLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]*jobLock
}

type jobLock struct {
	sync.Mutex
	refs int
}

func newJobLocks() *jobLocks {
	return &jobLocks{held: make(map[uuid.UUID]*jobLock)}
}

func (l *jobLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	jl, ok := l.held[id]
	if !ok {
		jl = &jobLock{}
		l.held[id] = jl
	}
	jl.refs++
	l.mu.Unlock()

	jl.Lock()
	return func() {
		jl.Unlock()

		l.mu.Lock()
		jl.refs--
		if jl.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}
