package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/models"
	"alfredoptarigan/ai-interview-platform/internal/repositories"
	"alfredoptarigan/ai-interview-platform/internal/services"
)

type AuthHandler struct {
	auth   services.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) HandleSignUp(c *fiber.Ctx) error {
	var req models.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp, err := h.auth.SignUp(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	h.logger.Info("User signed up", zap.String("user_id", resp.User.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) HandleSignIn(c *fiber.Ctx) error {
	var req models.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	resp, err := h.auth.SignIn(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *AuthHandler) HandleSignOut(c *fiber.Ctx) error {
	token, _ := c.Locals(localToken).(string)
	if err := h.auth.SignOut(c.UserContext(), token); err != nil {
		h.logger.Error("Sign out failed", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "signed out",
	})
}

type UserHandler struct {
	userRepo repositories.UserRepository
}

func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.userRepo.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}
