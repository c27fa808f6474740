package config

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hirewave/placement-portal/internal/models"
)

func InitDatabase(cfg *Config, passwords *PasswordConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connected")

	// Auto migrate
	if err := db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
		&models.AdminLog{},
		&models.AuditEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database migration completed")

	if err := seedAdmin(db, cfg.Admin, passwords, log); err != nil {
		return nil, err
	}

	return db, nil
}

func seedAdmin(db *gorm.DB, admin AdminConfig, passwords *PasswordConfig, log *zap.Logger) error {
	var existing models.User
	err := db.Where("username = ?", admin.Username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := passwords.HashPassword(admin.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       models.UserApproved,
	}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	log.Info("default admin created", zap.String("username", admin.Username))
	return nil
}
