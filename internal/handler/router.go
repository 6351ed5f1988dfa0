package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"appointment_booking/internal/metrics"
	"appointment_booking/internal/middleware"
	"appointment_booking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps bundles what the HTTP layer needs
type RouterDeps struct {
	Auth         service.AuthService
	Users        service.UserService
	Appointments service.AppointmentService
	DB           Pinger
	Metrics      metrics.Recorder
	Gatherer     prometheus.Gatherer
	Logger       *slog.Logger
	CORSOrigins  []string
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.LoggingMiddleware(deps.Logger),
		middleware.MetricsMiddleware(deps.Metrics),
		middleware.CORSMiddleware(deps.CORSOrigins),
	)

	authMW := middleware.JWTAuthMiddleware(deps.Auth)

	api := router.Group("/api")
	users := api.Group("/users")
	NewAuthHandler(deps.Auth).RegisterAuthRoutes(users)
	NewUserHandler(deps.Users).RegisterUserRoutes(users, authMW)
	NewAppointmentHandler(deps.Appointments).RegisterAppointmentRoutes(api, authMW, middleware.KnownRoleMiddleware())

	router.GET("/health", healthHandler(deps.DB))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(deps.Gatherer)))
	}

	return router
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}
