package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pawmark/vetcare-api/internal/config"
	"github.com/pawmark/vetcare-api/internal/domain/enum"
	domainRepo "github.com/pawmark/vetcare-api/internal/domain/repository"
	"github.com/pawmark/vetcare-api/internal/presentation/http/handler"
	"github.com/pawmark/vetcare-api/internal/presentation/http/middleware"
	"github.com/pawmark/vetcare-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	Customer      *handler.CustomerHandler
	Pet           *handler.PetHandler
	Appointment   *handler.AppointmentHandler
	MedicalRecord *handler.MedicalRecordHandler
	Inventory     *handler.InventoryHandler
	Billing       *handler.BillingHandler
	DiseaseCase   *handler.DiseaseCaseHandler
	Dashboard     *handler.DashboardHandler
	ML            *handler.MLHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuth)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/me", h.Auth.UpdateProfile)
	protected.PUT("/auth/password", h.Auth.ChangePassword)
	protected.POST("/auth/register", middleware.RequireRole(enum.RoleAdmin), h.Auth.Register)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Stats)

	// Customers
	registerCustomerRoutes(protected, h)

	// Pets
	registerPetRoutes(protected, h)

	// Appointments
	registerAppointmentRoutes(protected, h)

	// Medical records
	registerMedicalRecordRoutes(protected, h)

	// Inventory
	registerInventoryRoutes(protected, h)

	// Billing
	registerBillingRoutes(protected, h, deps)

	// Disease cases
	registerDiseaseCaseRoutes(protected, h)

	// Analytics proxy
	registerMLRoutes(protected, h)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Customer.Delete)
	}
}

func registerPetRoutes(protected *gin.RouterGroup, h *Handlers) {
	pets := protected.Group("/pets")
	{
		pets.GET("", h.Pet.List)
		pets.POST("", h.Pet.Create)
		pets.GET("/:id", h.Pet.Get)
		pets.GET("/:id/history", h.MedicalRecord.PetHistory)
		pets.PUT("/:id", h.Pet.Update)
		pets.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Pet.Delete)
	}
}

func registerAppointmentRoutes(protected *gin.RouterGroup, h *Handlers) {
	appointments := protected.Group("/appointments")
	{
		appointments.GET("", h.Appointment.List)
		appointments.POST("", h.Appointment.Create)
		appointments.GET("/:id", h.Appointment.Get)
		appointments.PUT("/:id", h.Appointment.Update)
		appointments.PATCH("/:id/status", h.Appointment.UpdateStatus)
		appointments.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Appointment.Delete)
	}
}

func registerMedicalRecordRoutes(protected *gin.RouterGroup, h *Handlers) {
	records := protected.Group("/medical-records")
	{
		records.GET("", h.MedicalRecord.List)
		records.POST("", middleware.RequireRole(enum.RoleVeterinarian, enum.RoleAdmin), h.MedicalRecord.Create)
		records.GET("/:id", h.MedicalRecord.Get)
		records.PUT("/:id", middleware.RequireRole(enum.RoleVeterinarian, enum.RoleAdmin), h.MedicalRecord.Update)
		records.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.MedicalRecord.Delete)
	}
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	inventory := protected.Group("/inventory")
	{
		inventory.GET("", h.Inventory.List)
		inventory.POST("", h.Inventory.Create)
		inventory.GET("/low-stock", h.Inventory.ListLowStock)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.PUT("/:id", h.Inventory.Update)
		inventory.PATCH("/:id/quantity", h.Inventory.AdjustQuantity)
		inventory.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Inventory.Delete)
	}
}

func registerBillingRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	billing := protected.Group("/billing")
	{
		billing.GET("", h.Billing.List)
		// Bill creation honors the Idempotency-Key header so retried
		// submissions don't double-charge.
		billing.POST("", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Billing.Create)
		billing.GET("/stats/revenue", middleware.RequireRole(enum.RoleAdmin, enum.RoleVeterinarian), h.Billing.RevenueStats)
		billing.GET("/overdue", middleware.RequireRole(enum.RoleAdmin, enum.RoleVeterinarian), h.Billing.ListOverdue)
		billing.GET("/:id", h.Billing.Get)
		billing.PUT("/:id", h.Billing.Update)
		billing.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.Billing.Cancel)
		billing.POST("/:id/payments", h.Billing.RecordPayment)
		billing.DELETE("/:id/payments/:payment_id", middleware.RequireRole(enum.RoleAdmin), h.Billing.DeletePayment)
	}
}

func registerDiseaseCaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	cases := protected.Group("/disease-cases")
	{
		cases.GET("", h.DiseaseCase.List)
		cases.POST("", h.DiseaseCase.Create)
		cases.GET("/stats", h.DiseaseCase.Stats)
		cases.GET("/:id", h.DiseaseCase.Get)
		cases.PUT("/:id", h.DiseaseCase.Update)
		cases.DELETE("/:id", middleware.RequireRole(enum.RoleAdmin), h.DiseaseCase.Delete)
	}
}

func registerMLRoutes(protected *gin.RouterGroup, h *Handlers) {
	ml := protected.Group("/ml")
	{
		ml.GET("/health", h.ML.Health)
		ml.GET("/models", h.ML.ModelStatus)
		ml.POST("/predict/outbreak", h.ML.PredictOutbreak)
		ml.POST("/forecast/sales", h.ML.SalesForecast)
	}
}
