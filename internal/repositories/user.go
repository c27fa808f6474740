package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hirewave/placement-portal/internal/models"
)

type UserRepository interface {
	// Register creates the user together with an empty student or company
	// profile, depending on the role.
	Register(user *models.User) error
	FindByID(id uuid.UUID) (*models.User, error)
	FindByIdentifier(identifier string) (*models.User, error)
	FindByUsernameAndEmail(username, email string) (*models.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	UpdatePassword(id uuid.UUID, passwordHash string) error
	Approve(id uuid.UUID) (*models.User, error)
	List() ([]models.UserSummary, error)
	CountPending(role models.Role) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Register implements UserRepository.
func (r *userRepository) Register(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return wrapCreate("user", err)
		}

		switch user.Role {
		case models.RoleStudent:
			if err := tx.Create(&models.Student{ID: uuid.New(), UserID: user.ID}).Error; err != nil {
				return fmt.Errorf("failed to create student profile: %w", err)
			}
		case models.RoleCompany:
			company := &models.Company{ID: uuid.New(), UserID: user.ID, CompanyName: user.Username}
			if err := tx.Create(company).Error; err != nil {
				return fmt.Errorf("failed to create company profile: %w", err)
			}
		}
		return nil
	})
}

// FindByID implements UserRepository.
func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, wrapFind("user", err)
	}
	return &user, nil
}

// FindByIdentifier implements UserRepository.
func (r *userRepository) FindByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error; err != nil {
		return nil, wrapFind("user", err)
	}
	return &user, nil
}

// FindByUsernameAndEmail implements UserRepository.
func (r *userRepository) FindByUsernameAndEmail(username, email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ? AND email = ?", username, email).First(&user).Error; err != nil {
		return nil, wrapFind("user", err)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail implements UserRepository.
func (r *userRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// UpdatePassword implements UserRepository.
func (r *userRepository) UpdatePassword(id uuid.UUID, passwordHash string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %w", ErrNotFound)
	}
	return nil
}

// Approve implements UserRepository. Approving a company makes sure it has a
// company profile, and every approval is recorded in the admin log.
func (r *userRepository) Approve(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     models.UserApproved,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to approve user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user not found: %w", ErrNotFound)
		}

		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return wrapFind("user", err)
		}

		action := fmt.Sprintf("Approved %s: %s", user.Role, user.Username)
		if err := tx.Create(&models.AdminLog{ID: uuid.New(), Action: action}).Error; err != nil {
			return fmt.Errorf("failed to write admin log: %w", err)
		}

		if user.Role == models.RoleCompany {
			company := models.Company{ID: uuid.New(), UserID: user.ID, CompanyName: user.Username}
			if err := tx.Where(models.Company{UserID: user.ID}).FirstOrCreate(&company).Error; err != nil {
				return fmt.Errorf("failed to ensure company profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List implements UserRepository.
func (r *userRepository) List() ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := r.db.Model(&models.User{}).
		Select("id, username, email, role, status").
		Order("created_at ASC").
		Scan(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CountPending implements UserRepository.
func (r *userRepository) CountPending(role models.Role) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("role = ? AND status = ?", role, models.UserPending).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending users: %w", err)
	}
	return count, nil
}

// wrapCreate maps unique index violations to ErrDuplicate. The database
// must be opened with TranslateError for gorm to report them.
func wrapCreate(entity string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", entity, ErrDuplicate)
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}

func wrapFind(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}
