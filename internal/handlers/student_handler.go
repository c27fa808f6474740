package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/services"
)

type StudentHandler struct {
	studentRepo   repositories.StudentRepository
	jobRepo       repositories.JobRepository
	appRepo       repositories.ApplicationRepository
	resumeService services.ResumeService
	feedService   services.FeedService
	maxFileSize   int64
	logger        *zap.Logger
}

func NewStudentHandler(
	studentRepo repositories.StudentRepository,
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	resumeService services.ResumeService,
	feedService services.FeedService,
	maxFileSize int64,
	logger *zap.Logger,
) *StudentHandler {
	return &StudentHandler{
		studentRepo:   studentRepo,
		jobRepo:       jobRepo,
		appRepo:       appRepo,
		resumeService: resumeService,
		feedService:   feedService,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

func (h *StudentHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.studentRepo.FindProfile(currentClaims(c).UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(profile)
}

func (h *StudentHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.studentRepo.UpdateProfile(currentClaims(c).UserID, &req); err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated",
	})
}

func (h *StudentHandler) HandleListJobs(c *fiber.Ctx) error {
	listings, err := h.feedService.InternalJobs(c.UserContext(), currentClaims(c).UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(listings)
}

func (h *StudentHandler) HandleUploadResume(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "please upload a PDF file in the 'resume' field")
	}

	if h.maxFileSize > 0 && file.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	resp, err := h.resumeService.ProcessUpload(c.UserContext(), currentClaims(c).UserID, file)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(resp)
}

func (h *StudentHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	analysis, err := h.resumeService.LatestAnalysis(currentClaims(c).UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	if analysis == nil {
		return fiber.NewError(fiber.StatusNotFound, "no resume has been analyzed yet")
	}
	return c.JSON(analysis)
}

func (h *StudentHandler) HandleExternalJobs(c *fiber.Ctx) error {
	return c.JSON(h.feedService.ExternalJobs(c.UserContext(), c.Query("search")))
}

func (h *StudentHandler) HandleFeed(c *fiber.Ctx) error {
	feed, err := h.feedService.Blended(c.UserContext(), currentClaims(c).UserID, c.Query("search"))
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(feed)
}

func (h *StudentHandler) HandleApply(c *fiber.Ctx) error {
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}

	student, err := h.studentRepo.FindByUserID(currentClaims(c).UserID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	if job.Status != models.JobOpen {
		return fiber.NewError(fiber.StatusBadRequest, "job is closed")
	}

	app := &models.Application{
		ID:        uuid.New(),
		StudentID: student.ID,
		JobID:     job.ID,
		Status:    models.ApplicationApplied,
	}
	if err := h.appRepo.Create(app); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return fiber.NewError(fiber.StatusConflict, "already applied")
		}
		return toHTTPError(h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Applied successfully",
		"application_id": app.ID,
	})
}
