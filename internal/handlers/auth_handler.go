package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
	logger      *zap.Logger
}

func NewAuthHandler(authService services.AuthService, userRepo repositories.UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user": models.UserSummary{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			Status:   user.Status,
		},
	})
}

func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	return c.JSON(resp)
}

// HandleVerify returns the account behind the presented token.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	claims := currentClaims(c)

	user, err := h.userRepo.FindByID(claims.UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	return c.JSON(models.UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Status:   user.Status,
	})
}

func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req models.ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(&req); err != nil {
		return toHTTPError(h.logger, err)
	}

	return c.JSON(fiber.Map{
		"message": "Password reset successfully",
	})
}
