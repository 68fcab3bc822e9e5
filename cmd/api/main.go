package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/dreamtoapp/admin-go-api/internal/config"
	"github.com/dreamtoapp/admin-go-api/internal/database"
	"github.com/dreamtoapp/admin-go-api/internal/handler"
	"github.com/dreamtoapp/admin-go-api/internal/middleware"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/repository"
	"github.com/dreamtoapp/admin-go-api/internal/router"
	"github.com/dreamtoapp/admin-go-api/internal/service"
	cloud "github.com/dreamtoapp/admin-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Education{},
		&models.Language{},
		&models.WorkExperience{},
		&models.Task{},
		&models.TaskHistory{},
		&models.TaskNotification{},
		&models.TaskAttachment{},
		&models.WorkLog{},
		&models.Attendance{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNats(cfg.NatsURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	var uploader service.FileUploader
	if cfg.CloudinaryCloudName != "" {
		store, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = store
	} else {
		logger.Warn().Msg("cloudinary not configured, attachment uploads disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	historyRepo := repository.NewTaskHistoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	workLogRepo := repository.NewWorkLogRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, taskRepo, natsConn, validate, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, historyRepo, notificationService, validate, logger)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, historyRepo, uploader, 10, logger)
	authService := service.NewAuthService(userRepo, attendanceRepo, cfg.JWTSecret, cfg.TokenTTL, validate, logger)
	userService := service.NewUserService(userRepo, profileRepo, validate, logger)
	workLogService := service.NewWorkLogService(workLogRepo, taskRepo, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		TaskHandler:         handler.NewTaskHandler(taskService, notificationService, attachmentService, logger),
		UserHandler:         handler.NewUserHandler(userService, logger),
		WorkLogHandler:      handler.NewWorkLogHandler(workLogService, logger),
		AttendanceHandler:   handler.NewAttendanceHandler(attendanceService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		DashboardHandler:    handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
