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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/unireg-go-api/internal/config"
	"github.com/noah-isme/unireg-go-api/internal/database"
	"github.com/noah-isme/unireg-go-api/internal/handler"
	"github.com/noah-isme/unireg-go-api/internal/middleware"
	"github.com/noah-isme/unireg-go-api/internal/repository"
	"github.com/noah-isme/unireg-go-api/internal/router"
	"github.com/noah-isme/unireg-go-api/internal/service"
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

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditLogRepo, natsConn, cfg.AuditSubject, logger)
	authService := service.NewAuthService(userRepo, tokenRepo, validate, cfg.BcryptCost, logger)
	accountService := service.NewAccountService(userRepo, validate, auditService, cfg.BcryptCost, logger)
	userService := service.NewUserService(userRepo, tokenRepo, validate, auditService, cfg.BcryptCost, logger)
	courseService := service.NewCourseService(courseRepo, userRepo, validate, auditService, redisClient, cfg.CatalogCacheTTL, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, auditService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, validate, auditService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		AccountHandler:    handler.NewAccountHandler(accountService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		AuditLogHandler:   handler.NewAuditLogHandler(auditService, logger),
		TokenAuth:         middleware.TokenAuth(authService),
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
