package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"hirewave/placement-portal/internal/config"
	"hirewave/placement-portal/internal/handlers"
	"hirewave/placement-portal/internal/repositories"
	"hirewave/placement-portal/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the placement portal HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides PORT)")
	viper.BindPFlag("PORT", serveCmd.Flags().Lookup("port"))
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger()
	defer log.Sync()

	cfg := config.Load(nil)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Info("config loaded", zap.String("env", cfg.Server.Env), zap.Strings("models", cfg.Gemini.Models))

	passwords, err := config.NewPasswordConfig(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	db, err := config.InitDatabase(cfg, passwords, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	userRepo := repositories.NewUserRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	companyRepo := repositories.NewCompanyRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	appRepo := repositories.NewApplicationRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		return err
	}

	analyzer := newAnalyzer(ctx, cfg, log)
	resumeService := services.NewResumeService(studentRepo, storageService, services.NewTextExtractor(), analyzer, log)
	feedService := services.NewFeedService(studentRepo, jobRepo, appRepo, newJobIndex(ctx, cfg, log), cfg.JobIndex.DefaultQuery, log)
	authService := services.NewAuthService(userRepo, passwords, cfg.Auth.JWTSecret, cfg.Auth.JWTExpirationHours, log)

	auditSink := services.NewAuditSink(auditRepo, cfg.Audit.Concurrency, cfg.Audit.QueueSize, log)
	auditSink.Start(ctx)

	router := &handlers.Router{
		Auth:             handlers.NewAuthHandler(authService, userRepo, log),
		Student:          handlers.NewStudentHandler(studentRepo, jobRepo, appRepo, resumeService, feedService, cfg.Storage.MaxFileSize, log),
		Company:          handlers.NewCompanyHandler(companyRepo, jobRepo, appRepo, log),
		Admin:            handlers.NewAdminHandler(userRepo, studentRepo, appRepo, auditRepo, log),
		AuthService:      authService,
		AuditSink:        auditSink,
		UploadsPerMinute: cfg.Storage.UploadsPerMinute,
		UploadDir:        cfg.Storage.UploadPath,
	}

	app := fiber.New(fiber.Config{
		AppName:      "HireWave Placement Portal API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	router.Register(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HireWave Placement Portal API",
			"version": "1.0.0",
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	err = app.Listen(addr)
	auditSink.Stop()
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// newAnalyzer builds the analyzer chain. Without a usable API key every
// upload gets a degraded analysis instead of failing startup.
func newAnalyzer(ctx context.Context, cfg *config.Config, log *zap.Logger) services.ResumeAnalyzer {
	var providers []services.Provider

	client, err := services.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Warn("gemini unavailable, resume analysis will be degraded", zap.Error(err))
	} else {
		providers = services.NewGeminiProviders(client, cfg.Gemini.Models)
	}

	return services.NewResumeAnalyzer(providers, services.NewPromptBuilder(), cfg.Gemini.AttemptTimeout, log)
}

func newJobIndex(ctx context.Context, cfg *config.Config, log *zap.Logger) services.JobIndex {
	index := services.NewAdzunaClient(services.AdzunaOptions{
		BaseURL:        cfg.JobIndex.BaseURL,
		AppID:          cfg.JobIndex.AppID,
		APIKey:         cfg.JobIndex.APIKey,
		Country:        cfg.JobIndex.Country,
		ResultsPerPage: cfg.JobIndex.ResultsPerPage,
		Timeout:        cfg.JobIndex.Timeout,
	}, log)

	if cfg.Redis.Addr == "" {
		return index
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable, job index cache will be bypassed until it recovers", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	} else {
		log.Info("job index cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.CacheTTL))
	}

	return services.NewCachedJobIndex(index, client, cfg.Redis.CacheTTL, log)
}
