package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type StudentRepository interface {
	FindByUserID(userID uuid.UUID) (*models.Student, error)
	FindProfile(userID uuid.UUID) (*models.StudentProfile, error)
	UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) error
	// UpdateResume overwrites the stored resume pointer, derived skills and
	// analysis. Concurrent uploads resolve as last write wins.
	UpdateResume(userID uuid.UUID, resumePath, skills string, analysis *models.ResumeAnalysis) error
	Count() (int64, error)
	DepartmentStats() ([]models.DepartmentStat, error)
}

type studentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

// FindByUserID implements StudentRepository.
func (r *studentRepository) FindByUserID(userID uuid.UUID) (*models.Student, error) {
	var student models.Student
	if err := r.db.Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, wrapFind("student", err)
	}
	return &student, nil
}

// FindProfile implements StudentRepository.
func (r *studentRepository) FindProfile(userID uuid.UUID) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	result := r.db.Table("students AS s").
		Select("s.*, u.username").
		Joins("JOIN users u ON s.user_id = u.id").
		Where("s.user_id = ?", userID).
		Scan(&profile)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to find student profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("student not found: %w", ErrNotFound)
	}
	return &profile, nil
}

// UpdateProfile implements StudentRepository.
func (r *studentRepository) UpdateProfile(userID uuid.UUID, req *models.UpdateProfileRequest) error {
	result := r.db.Model(&models.Student{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"full_name":  req.FullName,
			"cgpa":       req.CGPA,
			"department": req.Department,
			"skills":     req.Skills,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("student not found: %w", ErrNotFound)
	}
	return nil
}

// UpdateResume implements StudentRepository.
func (r *studentRepository) UpdateResume(userID uuid.UUID, resumePath, skills string, analysis *models.ResumeAnalysis) error {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("failed to encode resume analysis: %w", err)
	}

	result := r.db.Model(&models.Student{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"resume_path":     resumePath,
			"skills":          skills,
			"resume_analysis": datatypes.JSON(payload),
			"updated_at":      time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("student not found: %w", ErrNotFound)
	}
	return nil
}

// Count implements StudentRepository.
func (r *studentRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Student{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// DepartmentStats implements StudentRepository.
func (r *studentRepository) DepartmentStats() ([]models.DepartmentStat, error) {
	var stats []models.DepartmentStat
	err := r.db.Raw(`
		SELECT
			COALESCE(department, '') AS department,
			COUNT(*) AS total,
			SUM(CASE WHEN id IN (SELECT student_id FROM applications WHERE status = ?) THEN 1 ELSE 0 END) AS placed
		FROM students
		GROUP BY department`, models.ApplicationPlaced).
		Scan(&stats).Error

	if err != nil {
		return nil, fmt.Errorf("failed to compute department stats: %w", err)
	}
	return stats, nil
}
