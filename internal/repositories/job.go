package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type JobRepository interface {
	Create(job *models.Job) error
	FindByID(id uuid.UUID) (*models.Job, error)
	// ListOpen returns open jobs of every company in creation order.
	ListOpen() ([]models.JobWithCompany, error)
	ListByCompany(companyID uuid.UUID) ([]models.CompanyJob, error)
	UpdateStatus(id uuid.UUID, status models.JobStatus) error
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create implements JobRepository.
func (r *jobRepository) Create(job *models.Job) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// FindByID implements JobRepository.
func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		return nil, wrapFind("job", err)
	}
	return &job, nil
}

// ListOpen implements JobRepository.
func (r *jobRepository) ListOpen() ([]models.JobWithCompany, error) {
	var jobs []models.JobWithCompany
	err := r.db.Table("jobs AS j").
		Select("j.*, c.company_name").
		Joins("JOIN companies c ON j.company_id = c.id").
		Where("j.status = ?", models.JobOpen).
		Order("j.created_at ASC").
		Scan(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}
	return jobs, nil
}

// ListByCompany implements JobRepository.
func (r *jobRepository) ListByCompany(companyID uuid.UUID) ([]models.CompanyJob, error) {
	var jobs []models.CompanyJob
	err := r.db.Table("jobs AS j").
		Select("j.*, (SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS applicant_count").
		Where("j.company_id = ?", companyID).
		Order("j.created_at ASC").
		Scan(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}
	return jobs, nil
}

// UpdateStatus implements JobRepository.
func (r *jobRepository) UpdateStatus(id uuid.UUID, status models.JobStatus) error {
	result := r.db.Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update job status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("job not found: %w", ErrNotFound)
	}
	return nil
}
