package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/repositories"
)

type CompanyHandler struct {
	companyRepo repositories.CompanyRepository
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	logger      *zap.Logger
}

func NewCompanyHandler(
	companyRepo repositories.CompanyRepository,
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		logger:      logger,
	}
}

func (h *CompanyHandler) currentCompany(c *fiber.Ctx) (*models.Company, error) {
	company, err := h.companyRepo.FindByUserID(currentClaims(c).UserID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}
	return company, nil
}

// ownedJob loads the job and checks it belongs to the calling company.
func (h *CompanyHandler) ownedJob(c *fiber.Ctx, jobID uuid.UUID) (*models.Job, error) {
	company, err := h.currentCompany(c)
	if err != nil {
		return nil, err
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, toHTTPError(h.logger, err)
	}
	if job.CompanyID != company.ID {
		return nil, fiber.NewError(fiber.StatusForbidden, "job belongs to another company")
	}
	return job, nil
}

func (h *CompanyHandler) HandleListOwnJobs(c *fiber.Ctx) error {
	company, err := h.currentCompany(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobRepo.ListByCompany(company.ID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(jobs)
}

func (h *CompanyHandler) HandleListAllJobs(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.ListOpen()
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(jobs)
}

func (h *CompanyHandler) HandleCreateJob(c *fiber.Ctx) error {
	var req models.CreateJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	company, err := h.currentCompany(c)
	if err != nil {
		return err
	}

	job := &models.Job{
		ID:                  uuid.New(),
		CompanyID:           company.ID,
		Title:               req.Title,
		Description:         req.Description,
		EligibilityCriteria: req.EligibilityCriteria,
		Status:              models.JobOpen,
	}
	if err := h.jobRepo.Create(job); err != nil {
		return toHTTPError(h.logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *CompanyHandler) HandleListApplicants(c *fiber.Ctx) error {
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	if _, err := h.ownedJob(c, jobID); err != nil {
		return err
	}

	applicants, err := h.appRepo.ListApplicants(jobID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(applicants)
}

func (h *CompanyHandler) HandleUpdateApplicationStatus(c *fiber.Ctx) error {
	appID, err := uuidParam(c, "appId")
	if err != nil {
		return err
	}

	var req models.UpdateApplicationStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		return toHTTPError(h.logger, err)
	}
	if _, err := h.ownedJob(c, app.JobID); err != nil {
		return err
	}

	if err := h.appRepo.UpdateStatus(appID, req.Status); err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Status updated",
		"status":  req.Status,
	})
}

func (h *CompanyHandler) HandleCloseJob(c *fiber.Ctx) error {
	jobID, err := uuidParam(c, "jobId")
	if err != nil {
		return err
	}
	if _, err := h.ownedJob(c, jobID); err != nil {
		return err
	}

	if err := h.jobRepo.UpdateStatus(jobID, models.JobClosed); err != nil {
		return toHTTPError(h.logger, err)
	}
	return c.JSON(fiber.Map{
		"message": "Job closed",
	})
}
