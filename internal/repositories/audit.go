package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type AuditRepository interface {
	CreateEvent(event *models.AuditEvent) error
	RecentAdminLogs(limit int) ([]models.AdminLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// CreateEvent implements AuditRepository.
func (r *auditRepository) CreateEvent(event *models.AuditEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}
	return nil
}

// RecentAdminLogs implements AuditRepository.
func (r *auditRepository) RecentAdminLogs(limit int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list admin logs: %w", err)
	}
	return logs, nil
}
