package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type CompanyRepository interface {
	FindByUserID(userID uuid.UUID) (*models.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// FindByUserID implements CompanyRepository.
func (r *companyRepository) FindByUserID(userID uuid.UUID) (*models.Company, error) {
	var company models.Company
	if err := r.db.Where("user_id = ?", userID).First(&company).Error; err != nil {
		return nil, wrapFind("company", err)
	}
	return &company, nil
}
