package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

var (
	errForbidden = errors.New("forbidden")
	errInvalidID = errors.New("invalid id")
)

// respondError writes the JSON error body for a service or repository error.
// Unknown errors are reported as 500 without leaking their message.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, errInvalidID),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrQuestionIndex),
		errors.Is(err, services.ErrInvalidFileType):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrQuestionsNotReady):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, errForbidden):
		status, message = fiber.StatusForbidden, err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// ErrorHandler is the fiber.Config ErrorHandler for errors no handler answered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
