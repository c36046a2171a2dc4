package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawmark/vetcare-api/internal/application/service"
	"github.com/pawmark/vetcare-api/internal/config"
	"github.com/pawmark/vetcare-api/internal/infrastructure/database"
	"github.com/pawmark/vetcare-api/internal/infrastructure/ml"
	"github.com/pawmark/vetcare-api/internal/infrastructure/repository"
	"github.com/pawmark/vetcare-api/internal/presentation/http/handler"
	"github.com/pawmark/vetcare-api/internal/presentation/http/routes"
	"github.com/pawmark/vetcare-api/pkg/email"
	"github.com/pawmark/vetcare-api/pkg/oauth"
	"github.com/pawmark/vetcare-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build the logger
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if err := database.SeedDefaultData(db, logger); err != nil {
		logger.Warn("Failed to seed default data", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	petRepo := repository.NewPetRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	recordRepo := repository.NewMedicalRecordRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	billRepo := repository.NewBillRepository(db)
	caseRepo := repository.NewDiseaseCaseRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Analytics service client
	mlClient := ml.NewClient(cfg.ML.BaseURL, cfg.ML.TimeoutSeconds)

	// Initialize services
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	customerService := service.NewCustomerService(customerRepo)
	petService := service.NewPetService(petRepo, customerRepo)
	appointmentService := service.NewAppointmentService(appointmentRepo, petRepo, userRepo)
	recordService := service.NewMedicalRecordService(recordRepo, petRepo)
	inventoryService := service.NewInventoryService(inventoryRepo)
	billingService := service.NewBillingService(billRepo, customerRepo, inventoryRepo)
	caseService := service.NewDiseaseCaseService(caseRepo, petRepo)
	dashboardService := service.NewDashboardService(appointmentRepo, billRepo, inventoryRepo, caseRepo)
	mlService := service.NewMLService(mlClient, caseRepo, billRepo, logger)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Customer:      handler.NewCustomerHandler(customerService),
		Pet:           handler.NewPetHandler(petService),
		Appointment:   handler.NewAppointmentHandler(appointmentService),
		MedicalRecord: handler.NewMedicalRecordHandler(recordService),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Billing:       handler.NewBillingHandler(billingService),
		DiseaseCase:   handler.NewDiseaseCaseHandler(caseService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		ML:            handler.NewMLHandler(mlService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Logger:          logger,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt, then drain in-flight requests
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}

	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.App.Env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
