package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/services"
)

type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Job       *JobHandler
	Applicant *ApplicantHandler
	CV        *CVHandler
	Interview *InterviewHandler
	Speech    *SpeechHandler
	Live      *LiveHandler
}

// RegisterRoutes mounts the API under /api/v1. A nil limiter disables rate
// limiting of the model-backed endpoints.
func RegisterRoutes(app *fiber.App, h *Handlers, auth services.AuthService, limiter *services.LimiterManager, logger *zap.Logger) {
	api := app.Group("/api/v1")

	limited := func(c *fiber.Ctx) error { return c.Next() }
	if limiter != nil {
		limited = RateLimit(limiter, logger)
	}
	requireAuth := AuthMiddleware(auth)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", limited, h.Auth.HandleSignUp)
	authGroup.Post("/signin", limited, h.Auth.HandleSignIn)
	authGroup.Post("/signout", requireAuth, h.Auth.HandleSignOut)

	api.Get("/me", requireAuth, h.User.HandleMe)
	api.Get("/users", requireAuth, RequireAdmin, h.User.HandleList)

	jobs := api.Group("/jobs", requireAuth)
	jobs.Get("/", h.Job.HandleList)
	jobs.Get("/:id", h.Job.HandleGet)
	jobs.Post("/", RequireAdmin, h.Job.HandleCreate)
	jobs.Put("/:id", RequireAdmin, h.Job.HandleUpdate)
	jobs.Delete("/:id", RequireAdmin, h.Job.HandleDelete)
	jobs.Post("/:id/applicants", h.Applicant.HandleCreate)
	jobs.Delete("/:id/applicants/:applicantId", h.Applicant.HandleDelete)

	applicants := api.Group("/applicants", requireAuth)
	applicants.Get("/:id/history", h.Applicant.HandleHistory)
	applicants.Post("/:id/cv", limited, h.CV.HandleUpload)
	applicants.Get("/:id/cv/:cvId", h.CV.HandleGet)
	applicants.Put("/:id/cv/:cvId", limited, h.CV.HandleReplace)
	applicants.Delete("/:id/cv/:cvId", h.CV.HandleDelete)
	applicants.Post("/:id/cv/:cvId/reprocess", limited, h.CV.HandleReprocess)
	applicants.Post("/:id/interviews", h.Interview.HandleCreate)
	applicants.Get("/:id/interviews/results", h.Interview.HandleResults)

	interviews := api.Group("/interviews", requireAuth)
	interviews.Get("/:id", h.Interview.HandleDetail)
	interviews.Post("/:id/tts", limited, h.Speech.HandleQuestionAudio)
	interviews.Post("/:id/transcribe", limited, h.Speech.HandleTranscribe)
	interviews.Get("/:id/live", h.Live.HandleUpgrade, h.Live.HandleSession())
}
