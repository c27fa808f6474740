package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultGeminiModels is the analyzer fallback chain, tried in order.
const DefaultGeminiModels = "gemini-2.0-flash-lite,gemini-2.5-flash-lite,gemini-2.5-flash,gemini-2.5-pro,gemini-2.0-flash-001,gemini-2.0-flash"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	JobIndex JobIndexConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AuthConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	BcryptCost         int
}

// AdminConfig is the account seeded on first start.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey         string
	Models         []string
	AttemptTimeout time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
	// UploadsPerMinute limits resume uploads per user; 0 disables the limit.
	UploadsPerMinute int
}

type JobIndexConfig struct {
	BaseURL        string
	AppID          string
	APIKey         string
	Country        string
	ResultsPerPage int
	DefaultQuery   string
	Timeout        time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type AuditConfig struct {
	Concurrency int
	QueueSize   int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ENV", "development")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24*30)
	v.SetDefault("BCRYPT_COST", 10)

	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@placement.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "placement_portal")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODELS", DefaultGeminiModels)
	v.SetDefault("GEMINI_ATTEMPT_TIMEOUT", "10s")

	v.SetDefault("UPLOAD_PATH", "./uploads")
	v.SetDefault("MAX_FILE_SIZE", 10485760)
	v.SetDefault("UPLOAD_RATE_LIMIT", 5)

	v.SetDefault("ADZUNA_BASE_URL", "https://api.adzuna.com/v1/api/jobs")
	v.SetDefault("ADZUNA_APP_ID", "")
	v.SetDefault("ADZUNA_API_KEY", "")
	v.SetDefault("ADZUNA_COUNTRY", "in")
	v.SetDefault("ADZUNA_RESULTS_PER_PAGE", 10)
	v.SetDefault("JOB_INDEX_DEFAULT_QUERY", "software engineer")
	v.SetDefault("JOB_INDEX_TIMEOUT", "10s")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JOB_INDEX_CACHE_TTL", "10m")

	v.SetDefault("AUDIT_CONCURRENCY", 2)
	v.SetDefault("AUDIT_QUEUE_SIZE", 100)
}

// Load reads configuration from a .env file, the environment and any flags
// already bound into v. A nil v uses the global viper instance.
func Load(v *viper.Viper) *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	if v == nil {
		v = viper.GetViper()
	}
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("JWT_SECRET"),
			JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
			BcryptCost:         v.GetInt("BCRYPT_COST"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Gemini: GeminiConfig{
			APIKey:         v.GetString("GEMINI_API_KEY"),
			Models:         SplitList(v.GetString("GEMINI_MODELS")),
			AttemptTimeout: v.GetDuration("GEMINI_ATTEMPT_TIMEOUT"),
		},
		Storage: StorageConfig{
			UploadPath:       v.GetString("UPLOAD_PATH"),
			MaxFileSize:      v.GetInt64("MAX_FILE_SIZE"),
			UploadsPerMinute: v.GetInt("UPLOAD_RATE_LIMIT"),
		},
		JobIndex: JobIndexConfig{
			BaseURL:        v.GetString("ADZUNA_BASE_URL"),
			AppID:          v.GetString("ADZUNA_APP_ID"),
			APIKey:         v.GetString("ADZUNA_API_KEY"),
			Country:        v.GetString("ADZUNA_COUNTRY"),
			ResultsPerPage: v.GetInt("ADZUNA_RESULTS_PER_PAGE"),
			DefaultQuery:   v.GetString("JOB_INDEX_DEFAULT_QUERY"),
			Timeout:        v.GetDuration("JOB_INDEX_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: v.GetDuration("JOB_INDEX_CACHE_TTL"),
		},
		Audit: AuditConfig{
			Concurrency: v.GetInt("AUDIT_CONCURRENCY"),
			QueueSize:   v.GetInt("AUDIT_QUEUE_SIZE"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Gemini.Models) == 0 {
		return fmt.Errorf("GEMINI_MODELS must list at least one model")
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
