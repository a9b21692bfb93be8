package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/config"
	"github.com/BruksfildServices01/barberbook/internal/handlers"
	"github.com/BruksfildServices01/barberbook/internal/logger"
	"github.com/BruksfildServices01/barberbook/internal/metrics"
	"github.com/BruksfildServices01/barberbook/internal/middleware"
	"github.com/BruksfildServices01/barberbook/internal/store/booking"
	"github.com/BruksfildServices01/barberbook/internal/store/directory"
	"github.com/BruksfildServices01/barberbook/internal/store/identity"
)

type Deps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Users     *identity.Store
	Barbers   *directory.Barbers
	Services  *directory.Services
	Clients   *directory.Clients
	Bookings  *booking.Store
	AuditLogs *audit.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(logger.Middleware(d.Logger))
	r.Use(d.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Users, cfg)
	meHandler := handlers.NewMeHandler(d.Users, d.Bookings)
	barberHandler := handlers.NewBarberHandler(d.Barbers)
	serviceHandler := handlers.NewServiceHandler(d.Services)
	clientHandler := handlers.NewClientHandler(d.Clients)
	bookingHandler := handlers.NewBookingHandler(d.Bookings, cfg.AppRole)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditLogs, cfg.Timezone)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "role": cfg.AppRole, "instance": cfg.InstanceID})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH + SESSION
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/session", authHandler.Session)

		// ------------------------------
		// PUBLIC DIRECTORY
		// ------------------------------
		api.GET("/barbers", barberHandler.List)
		api.GET("/barbers/:id", barberHandler.Get)
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/bookings", meHandler.Bookings)

			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Deactivate)

			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.POST("/clients/derive", clientHandler.Derive)
			secured.PUT("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", clientHandler.Delete)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings", bookingHandler.List)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PATCH("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
