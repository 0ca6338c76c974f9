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

	"github.com/noah-isme/sap-mentor-api/internal/config"
	"github.com/noah-isme/sap-mentor-api/internal/database"
	"github.com/noah-isme/sap-mentor-api/internal/handler"
	"github.com/noah-isme/sap-mentor-api/internal/middleware"
	"github.com/noah-isme/sap-mentor-api/internal/models"
	"github.com/noah-isme/sap-mentor-api/internal/repository"
	"github.com/noah-isme/sap-mentor-api/internal/router"
	"github.com/noah-isme/sap-mentor-api/internal/service"
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

	if err := db.AutoMigrate(&models.Submission{}, &models.Notification{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching and fan-out disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, cross-node fan-out disabled")
		natsConn = nil
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityLogRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityLogRepo, logger)
	aggregateService := service.NewAggregateService(submissionRepo, validate, redisClient, cfg.AggregateCacheTTL, logger)
	reviewService := service.NewReviewService(submissionRepo, validate, activityService, aggregateService, logger)
	reportService := service.NewReportService(submissionRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, submissionRepo, redisClient, cfg.NotifyChannelBase, natsConn, logger)
	seedService := service.NewSeedService(submissionRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	submissionHandler := handler.NewMentorSubmissionHandler(aggregateService, reviewService, logger)
	reportHandler := handler.NewMentorReportHandler(aggregateService, reportService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.StreamKeepAlive)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})

	var jwtMiddleware, roleMiddleware fiber.Handler
	if cfg.AuthRequired {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
		roleMiddleware = middleware.RequireRole("mentor", "admin")
	}

	router.Register(app, cfg, router.Dependencies{
		SubmissionHandler:   submissionHandler,
		ReportHandler:       reportHandler,
		NotificationHandler: notificationHandler,
		ActivityHandler:     activityHandler,
		SeedHandler:         seedHandler,
		JWTMiddleware:       jwtMiddleware,
		RoleMiddleware:      roleMiddleware,
	})

	runCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	notificationService.Start(runCtx)

	poller := service.NewPendingPoller(submissionRepo, notificationService, cfg.PollInterval, logger)
	go poller.Run(runCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopWorkers)
}

func waitForShutdown(app *fiber.App, stopWorkers context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
