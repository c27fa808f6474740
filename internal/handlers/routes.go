package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/services"
)

type Router struct {
	Auth    *AuthHandler
	Student *StudentHandler
	Company *CompanyHandler
	Admin   *AdminHandler

	AuthService services.AuthService
	AuditSink   services.AuditSink

	// UploadsPerMinute caps resume uploads per user; zero disables the limit.
	UploadsPerMinute int
	// UploadDir is served read-only under /uploads when set.
	UploadDir string
}

func (r *Router) Register(app *fiber.App) {
	if r.UploadDir != "" {
		app.Static("/uploads", r.UploadDir)
	}

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	requireAuth := RequireAuth(r.AuthService, r.AuditSink)

	auth := api.Group("/auth")
	auth.Post("/register", r.Auth.HandleRegister)
	auth.Post("/login", r.Auth.HandleLogin)
	auth.Post("/forgot-password", r.Auth.HandleForgotPassword)
	auth.Get("/verify", requireAuth, r.Auth.HandleVerify)

	student := api.Group("/student", requireAuth, RequireRole(models.RoleStudent))
	student.Get("/profile", r.Student.HandleGetProfile)
	student.Put("/profile", r.Student.HandleUpdateProfile)
	student.Get("/jobs", r.Student.HandleListJobs)
	student.Post("/upload-resume", r.uploadLimiter(), r.Student.HandleUploadResume)
	student.Get("/analysis", r.Student.HandleGetAnalysis)
	student.Get("/external-jobs", r.Student.HandleExternalJobs)
	student.Get("/feed", r.Student.HandleFeed)
	student.Post("/apply/:jobId", r.Student.HandleApply)

	company := api.Group("/company", requireAuth, RequireRole(models.RoleCompany))
	company.Get("/jobs", r.Company.HandleListOwnJobs)
	company.Get("/all-jobs", r.Company.HandleListAllJobs)
	company.Post("/jobs", r.Company.HandleCreateJob)
	company.Put("/jobs/:jobId/close", r.Company.HandleCloseJob)
	company.Get("/applicants/:jobId", r.Company.HandleListApplicants)
	company.Put("/application/:appId", r.Company.HandleUpdateApplicationStatus)

	admin := api.Group("/admin", requireAuth, RequireRole(models.RoleAdmin))
	admin.Get("/users", r.Admin.HandleListUsers)
	admin.Put("/approve/:userId", r.Admin.HandleApproveUser)
	admin.Get("/reports", r.Admin.HandleReports)
}

func (r *Router) uploadLimiter() fiber.Handler {
	if r.UploadsPerMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        r.UploadsPerMinute,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if claims := currentClaims(c); claims != nil {
				return claims.UserID.String()
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many uploads, try again in a minute")
		},
	})
}
