package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

const recentActionsLimit = 5

type AdminHandler struct {
	userRepo    repositories.UserRepository
	studentRepo repositories.StudentRepository
	appRepo     repositories.ApplicationRepository
	auditRepo   repositories.AuditRepository
	logger      *zap.Logger
}

func NewAdminHandler(
	userRepo repositories.UserRepository,
	studentRepo repositories.StudentRepository,
	appRepo repositories.ApplicationRepository,
	auditRepo repositories.AuditRepository,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		appRepo:     appRepo,
		auditRepo:   auditRepo,
		logger:      logger,
	}
}

func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.List()
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(users)
}

func (h *AdminHandler) HandleApproveUser(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	user, err := h.userRepo.Approve(userID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	h.logger.Info("user approved", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return c.JSON(fiber.Map{
		"message": "User approved",
	})
}

func (h *AdminHandler) HandleReports(c *fiber.Ctx) error {
	report, err := h.buildReport()
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(report)
}

func (h *AdminHandler) buildReport() (*models.ReportResponse, error) {
	total, err := h.studentRepo.Count()
	if err != nil {
		return nil, err
	}
	placed, err := h.appRepo.CountPlacedStudents()
	if err != nil {
		return nil, err
	}
	pendingStudents, err := h.userRepo.CountPending(models.RoleStudent)
	if err != nil {
		return nil, err
	}
	pendingCompanies, err := h.userRepo.CountPending(models.RoleCompany)
	if err != nil {
		return nil, err
	}
	deptStats, err := h.studentRepo.DepartmentStats()
	if err != nil {
		return nil, err
	}
	recent, err := h.auditRepo.RecentAdminLogs(recentActionsLimit)
	if err != nil {
		return nil, err
	}

	return &models.ReportResponse{
		Total:            total,
		Placed:           placed,
		Unplaced:         total - placed,
		PendingStudents:  pendingStudents,
		PendingCompanies: pendingCompanies,
		DeptStats:        deptStats,
		RecentActions:    recent,
	}, nil
}
