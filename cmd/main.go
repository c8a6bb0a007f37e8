package main

import (
	"github.com/Tallon1/rooster-ai-sub000/internal/handler"
	"github.com/Tallon1/rooster-ai-sub000/internal/middleware"
	"github.com/Tallon1/rooster-ai-sub000/internal/service"
	"github.com/Tallon1/rooster-ai-sub000/pkg/config"
	"github.com/Tallon1/rooster-ai-sub000/pkg/database"
	"github.com/Tallon1/rooster-ai-sub000/pkg/jwtutil"
	"github.com/Tallon1/rooster-ai-sub000/pkg/logger"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting scheduling service...", cfg.LogFields()...)

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire services. The database handle is injected everywhere; nothing
	// reaches for a package-level connection.
	access := service.NewAccessChecker(db)
	tenants := service.NewTenantService(db, log)
	auth := service.NewAuthService(db, tenants, log)
	staff := service.NewStaffService(db, log)
	dispatcher := service.NewStoreDispatcher(db, log)
	rosters := service.NewRosterService(db, dispatcher, log)
	notifications := service.NewNotificationService(db)
	analytics := service.NewAnalyticsService(db)
	export := service.NewExportService(rosters, log)

	authHandler := handler.NewAuthHandler(auth, access)
	tenantHandler := handler.NewTenantHandler(tenants, access)
	staffHandler := handler.NewStaffHandler(staff, access)
	rosterHandler := handler.NewRosterHandler(rosters, export, staff, access)
	notificationHandler := handler.NewNotificationHandler(notifications, staff, access)
	analyticsHandler := handler.NewAnalyticsHandler(analytics, access)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	authGroup := e.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Account management
	users := api.Group("/users")
	users.GET("/profile", authHandler.GetProfile)
	users.PATCH("/profile", authHandler.UpdateProfile)
	users.POST("/change-password", authHandler.ChangePassword)
	users.POST("", authHandler.CreateUser)

	// Tenant management
	tenantGroup := api.Group("/tenants")
	tenantGroup.GET("/:id", tenantHandler.GetTenant)
	tenantGroup.PATCH("", tenantHandler.UpdateTenant)
	tenantGroup.DELETE("", tenantHandler.DeactivateTenant)
	tenantGroup.GET("/locations", tenantHandler.ListLocations)
	tenantGroup.POST("/locations", tenantHandler.CreateLocation)

	// Staff records and availability
	staffGroup := api.Group("/staff")
	staffGroup.GET("", staffHandler.ListStaff)
	staffGroup.POST("", staffHandler.CreateStaff)
	staffGroup.GET("/:id", staffHandler.GetStaff)
	staffGroup.PATCH("/:id", staffHandler.UpdateStaff)
	staffGroup.DELETE("/:id", staffHandler.DeleteStaff)
	staffGroup.POST("/:id/availability", staffHandler.AddAvailability)
	staffGroup.PATCH("/:id/availability/:availability_id", staffHandler.SetAvailability)
	staffGroup.DELETE("/:id/availability/:availability_id", staffHandler.RemoveAvailability)
	staffGroup.GET("/:id/account", staffHandler.GetStaffAccount)
	staffGroup.GET("/:id/hours", analyticsHandler.StaffHours)
	staffGroup.GET("/:id/notifications", notificationHandler.ListForStaff)

	// Rosters and shifts
	rosterGroup := api.Group("/rosters")
	rosterGroup.GET("", rosterHandler.ListRosters)
	rosterGroup.POST("", rosterHandler.CreateRoster)
	rosterGroup.GET("/:id", rosterHandler.GetRoster)
	rosterGroup.DELETE("/:id", rosterHandler.DeleteRoster)
	rosterGroup.POST("/:id/publish", rosterHandler.PublishRoster)
	rosterGroup.POST("/:id/instantiate", rosterHandler.CreateFromTemplate)
	rosterGroup.GET("/:id/export", rosterHandler.ExportRoster)
	rosterGroup.GET("/:id/stats", analyticsHandler.RosterStats)
	rosterGroup.POST("/:id/shifts", rosterHandler.AddShift)

	shiftGroup := api.Group("/shifts")
	shiftGroup.PATCH("/:shift_id", rosterHandler.UpdateShift)
	shiftGroup.POST("/:shift_id/confirm", rosterHandler.ConfirmShift)
	shiftGroup.DELETE("/:shift_id", rosterHandler.DeleteShift)

	// Notifications and analytics
	api.GET("/notifications", notificationHandler.ListMine)
	api.POST("/notifications/:id/read", notificationHandler.MarkRead)
	api.GET("/analytics/summary", analyticsHandler.Summary)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
