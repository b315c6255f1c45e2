package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medicab/booking-api/internal/handler"
	appthandler "github.com/medicab/booking-api/internal/handler/appointment"
	authhandler "github.com/medicab/booking-api/internal/handler/auth"
	profilehandler "github.com/medicab/booking-api/internal/handler/profile"
	"github.com/medicab/booking-api/internal/middleware"
	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/pkg/auth"
)

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "http_request_duration_seconds",
	Help:    "Duration of HTTP requests",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path", "status"})

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *authhandler.Handler
	Profile     *profilehandler.Handler
	Appointment *appthandler.Handler
}

func Setup(
	jwtService auth.JWTService,
	rateLimiter *middleware.RateLimiter,
	requestTimeout time.Duration,
	h Handlers,
) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(rateLimiter.Middleware())
	r.Use(metricsMiddleware())

	health := r.Group("/health")
	{
		health.GET("/live", h.Health.LivenessCheck)
		health.GET("/ready", h.Health.ReadinessCheck)
		health.GET("/metrics", handler.MetricsHandler())
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/register", h.Auth.Register)
		v1.POST("/login", h.Auth.Login)
		v1.POST("/refresh", h.Auth.Refresh)

		authed := v1.Group("")
		authed.Use(middleware.Authenticate(jwtService))
		{
			authed.GET("/me", h.Auth.Me)

			authed.GET("/profile", h.Profile.Get)
			authed.PATCH("/profile", h.Profile.Update)
			authed.GET("/patient-profile", h.Profile.GetPatient)
			authed.PATCH("/patient-profile", h.Profile.UpdatePatient)
			authed.GET("/medecin-profile", h.Profile.GetDoctor)
			authed.PATCH("/medecin-profile", h.Profile.UpdateDoctor)

			rdv := authed.Group("/rdv")
			{
				rdv.POST("/create", middleware.RequireRole(model.RoleDoctor), h.Appointment.CreateSlot)
				rdv.GET("", h.Appointment.List)
				rdv.POST("/reserver/:id", middleware.RequireRole(model.RolePatient), h.Appointment.Reserve)
				rdv.PATCH("/:id/status", middleware.RequireRole(model.RoleDoctor), h.Appointment.UpdateStatus)
			}

			authed.GET("/rendezvous/disponibles", middleware.RequireRole(model.RolePatient), h.Appointment.ListOpen)
		}
	}

	return r
}
