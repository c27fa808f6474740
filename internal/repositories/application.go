package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type ApplicationRepository interface {
	// Create inserts the application, returning ErrDuplicate when the student
	// already applied to the job.
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	ListByStudent(studentID uuid.UUID) ([]models.Application, error)
	ListApplicants(jobID uuid.UUID) ([]models.Applicant, error)
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	CountPlacedStudents() (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create implements ApplicationRepository.
func (r *applicationRepository) Create(app *models.Application) error {
	var existing int64
	if err := r.db.Model(&models.Application{}).
		Where("student_id = ? AND job_id = ?", app.StudentID, app.JobID).
		Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check application: %w", err)
	}
	if existing > 0 {
		return fmt.Errorf("application: %w", ErrDuplicate)
	}

	// The unique index still catches a concurrent apply that passed the check.
	if err := r.db.Create(app).Error; err != nil {
		return wrapCreate("application", err)
	}
	return nil
}

// FindByID implements ApplicationRepository.
func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		return nil, wrapFind("application", err)
	}
	return &app, nil
}

// ListByStudent implements ApplicationRepository.
func (r *applicationRepository) ListByStudent(studentID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.Where("student_id = ?", studentID).Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListApplicants implements ApplicationRepository.
func (r *applicationRepository) ListApplicants(jobID uuid.UUID) ([]models.Applicant, error) {
	var applicants []models.Applicant
	err := r.db.Table("applications AS a").
		Select(`a.id AS application_id, a.status AS application_status, s.id AS student_id,
			s.full_name, s.cgpa, s.department, s.skills, s.resume_path, u.username`).
		Joins("JOIN students s ON a.student_id = s.id").
		Joins("JOIN users u ON s.user_id = u.id").
		Where("a.job_id = ?", jobID).
		Order("a.applied_at ASC").
		Scan(&applicants).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	return applicants, nil
}

// UpdateStatus implements ApplicationRepository.
func (r *applicationRepository) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update application status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application not found: %w", ErrNotFound)
	}
	return nil
}

// CountPlacedStudents implements ApplicationRepository.
func (r *applicationRepository) CountPlacedStudents() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Application{}).
		Where("status = ?", models.ApplicationPlaced).
		Distinct("student_id").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count placed students: %w", err)
	}
	return count, nil
}
