package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/office-task-api/internal/config"
	"github.com/yukikurage/office-task-api/internal/database"
	"github.com/yukikurage/office-task-api/internal/deadline"
	"github.com/yukikurage/office-task-api/internal/handlers"
	"github.com/yukikurage/office-task-api/internal/logging"
	"github.com/yukikurage/office-task-api/internal/middleware"
	"github.com/yukikurage/office-task-api/internal/repository"
	"github.com/yukikurage/office-task-api/internal/services"
	"github.com/yukikurage/office-task-api/internal/uploads"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	calendar, err := deadline.LoadCalendar(cfg.HolidaysFile)
	if err != nil {
		logger.Fatal("failed to load holiday calendar", zap.String("path", cfg.HolidaysFile), zap.Error(err))
	}

	uploadStore, err := uploads.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Info("OPENAI_API_KEY not set, task suggestions disabled")
	}

	taskService := services.NewTaskService(repos.Tasks, repos.Users, calendar, aiService)
	userService := services.NewUserService(repos.Users)

	admin, err := userService.EnsureBootstrapAdmin(cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword)
	if err != nil {
		logger.Fatal("failed to create bootstrap account", zap.Error(err))
	}
	if admin != nil {
		logger.Info("created bootstrap deputy director", zap.String("username", admin.Username))
	}

	sessionStore, err := middleware.NewSessionStore(cfg)
	if err != nil {
		logger.Fatal("failed to create session store", zap.String("store", cfg.SessionStore), zap.Error(err))
	}

	r := handlers.NewRouter(handlers.Dependencies{
		Tasks:        taskService,
		Users:        userService,
		Complaints:   services.NewComplaintService(repos.Complaints),
		Reports:      services.NewReportService(taskService),
		Calendar:     calendar,
		Uploads:      uploadStore,
		Sessions:     sessionStore,
		Logger:       logger,
		EnforceRoles: cfg.EnforceRoles,
		Extra:        []gin.HandlerFunc{middleware.CORS(cfg)},
	})

	// Start server
	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func openRepositories(cfg *config.Config, logger *zap.Logger) (repository.Set, error) {
	if cfg.StorageDriver == config.StorageFile {
		store, err := database.NewFileStore(cfg.DataDir)
		if err != nil {
			return repository.Set{}, err
		}
		return repository.NewFileSet(store), nil
	}

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return repository.Set{}, err
	}
	// Run migrations
	if err := database.Migrate(db); err != nil {
		return repository.Set{}, err
	}
	return repository.NewGormSet(db), nil
}
