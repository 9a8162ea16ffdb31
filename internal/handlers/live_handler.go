package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

const localInterviewID = "interview_id"

// SessionRunner drives one live interview over an upgraded connection.
type SessionRunner interface {
	Run(ctx context.Context, interviewID uuid.UUID, conn services.SessionConn) error
}

type LiveHandler struct {
	// ctx is canceled on server shutdown so open sessions wind down.
	ctx          context.Context
	access       applicantAccess
	interviews   services.InterviewService
	orchestrator SessionRunner
	logger       *zap.Logger

	// hijacked connections are invisible to fiber's shutdown
	sessions sync.WaitGroup
}

func NewLiveHandler(
	ctx context.Context,
	applicantRepo repositories.ApplicantRepository,
	interviews services.InterviewService,
	orchestrator SessionRunner,
	logger *zap.Logger,
) *LiveHandler {
	return &LiveHandler{
		ctx:          ctx,
		access:       applicantAccess{applicantRepo: applicantRepo},
		interviews:   interviews,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// HandleUpgrade authorizes the caller before the protocol switch so that
// rejected clients get a plain HTTP status.
func (h *LiveHandler) HandleUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	interview, err := h.access.interview(c, h.interviews, "id")
	if err != nil {
		return respondError(c, err)
	}

	c.Locals(localInterviewID, interview.ID)
	return c.Next()
}

func (h *LiveHandler) HandleSession() fiber.Handler {
	return websocket.New(h.serve, websocket.Config{
		HandshakeTimeout: 10 * time.Second,
	})
}

// Wait blocks until every open session has returned or the timeout passes.
// It reports whether all sessions finished.
func (h *LiveHandler) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (h *LiveHandler) track() func() {
	h.sessions.Add(1)
	return h.sessions.Done
}

func (h *LiveHandler) serve(conn *websocket.Conn) {
	defer h.track()()

	interviewID, _ := conn.Locals(localInterviewID).(uuid.UUID)
	log := h.logger.With(
		zap.String("interview_id", interviewID.String()),
		zap.String("remote_ip", conn.IP()),
	)

	log.Info("Live session connected")
	started := time.Now()

	err := h.orchestrator.Run(h.ctx, interviewID, conn)
	if err != nil {
		log.Warn("Live session ended with error", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
	} else {
		log.Info("Live session finished", zap.Duration("elapsed", time.Since(started)))
	}

	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	_ = conn.Close()
}
