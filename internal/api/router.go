package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/luzdental/clinic-system/internal/api/handler"
	"github.com/luzdental/clinic-system/internal/api/middleware"
	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/service"
	"github.com/luzdental/clinic-system/internal/infrastructure/config"
	mongodb "github.com/luzdental/clinic-system/internal/infrastructure/db/mongo"
	redisinfra "github.com/luzdental/clinic-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("clinic"))

	// --- Dependencies ---
	treatmentRepo := mongodb.NewTreatmentRepository(db)
	appointmentRepo := mongodb.NewAppointmentRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)
	accountRepo := mongodb.NewAccountRepository(db)
	groupRepo := mongodb.NewGroupRepository(db)
	locker := redisinfra.NewSlotLocker(rdb, cfg.SlotLockTTL)

	directory := service.NewDirectoryService(groupRepo, log)
	bookingService := service.NewBookingService(appointmentRepo, treatmentRepo, locker, log)
	appointmentService := service.NewAppointmentService(appointmentRepo, treatmentRepo, log)
	treatmentService := service.NewTreatmentService(treatmentRepo, log)
	reservationService := service.NewReservationService(reservationRepo, log)
	accountService := service.NewAccountService(accountRepo, directory, cfg.JWTSecret, cfg.TokenTTL, log)

	authHandler := handler.NewAuthHandler(accountService)
	bookingHandler := handler.NewBookingHandler(bookingService, treatmentService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	treatmentHandler := handler.NewTreatmentHandler(treatmentService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	accountHandler := handler.NewAccountHandler(accountService)

	authn := middleware.Auth(cfg.JWTSecret)

	// Gates mirror the clinic's role model: administrators pass everything,
	// employees handle day-to-day scheduling, the permission groups open a
	// single module each.
	adminOnly := middleware.RequireGroups(domain.GroupAdministrator)
	scheduling := middleware.RequireGroups(domain.GroupAdministrator, domain.GroupEmployee)
	appointmentsRead := middleware.RequireGroups(
		domain.GroupAdministrator, domain.GroupEmployee, domain.GroupPermissionAppointments)
	treatmentsAccess := middleware.RequireGroups(
		domain.GroupAdministrator, domain.GroupPermissionTreatments)

	// --- Public routes ---
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/booking/appointments", bookingHandler.Request)
	e.GET("/treatments", bookingHandler.Treatments)

	// --- Staff routes ---
	v1 := e.Group("/v1", authn)

	v1.GET("/dashboard", appointmentHandler.Dashboard)

	v1.GET("/appointments", appointmentHandler.List, appointmentsRead)
	v1.POST("/appointments", appointmentHandler.Create, adminOnly)
	v1.PUT("/appointments/:id/schedule", appointmentHandler.Reschedule, scheduling)
	v1.POST("/appointments/:id/attend", appointmentHandler.MarkAttended, appointmentsRead)
	v1.DELETE("/appointments/:id", appointmentHandler.Delete, scheduling)

	v1.GET("/treatments", treatmentHandler.List, treatmentsAccess)
	v1.POST("/treatments", treatmentHandler.Create, treatmentsAccess)
	v1.PUT("/treatments/:id", treatmentHandler.Update, treatmentsAccess)
	v1.DELETE("/treatments/:id", treatmentHandler.Delete, treatmentsAccess)

	v1.GET("/reservations", reservationHandler.List, scheduling)
	v1.POST("/reservations", reservationHandler.Create, adminOnly)
	v1.PATCH("/reservations/:id", reservationHandler.Edit, adminOnly)
	v1.POST("/reservations/:id/ready", reservationHandler.MarkReady, scheduling)
	v1.DELETE("/reservations/:id", reservationHandler.Delete, adminOnly)

	v1.GET("/accounts", accountHandler.List, adminOnly)
	v1.POST("/accounts", accountHandler.Create, adminOnly)
	v1.GET("/accounts/:id", accountHandler.Get, adminOnly)
	v1.PUT("/accounts/:id", accountHandler.Update, adminOnly)
	v1.DELETE("/accounts/:id", accountHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
