package server

import (
	"context"
	"net/http"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/bodymetric"
	"fitclub/internal/booking"
	"fitclub/internal/checkin"
	"fitclub/internal/config"
	"fitclub/internal/goal"
	"fitclub/internal/gym"
	"fitclub/internal/membership"
	"fitclub/internal/user"
	"fitclub/internal/workout"

	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers of every domain package.
type Handlers struct {
	User       *user.Handler
	Gym        *gym.Handler
	Booking    *booking.Handler
	Membership *membership.Handler
	CheckIn    *checkin.Handler
	Workout    *workout.Handler
	Goal       *goal.Handler
	Metric     *bodymetric.Handler
}

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
}

func New(cfg *config.Config, verifier auth.TokenVerifier, h Handlers, checks ...Check) *Server {
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
		corsMiddleware(),
		limiter.Middleware(),
	)

	router.GET("/health", Health(checks...))
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	registerRoutes(router, verifier, h)

	return &Server{
		router:  router,
		limiter: limiter,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func registerRoutes(router *gin.Engine, verifier auth.TokenVerifier, h Handlers) {
	authMiddleware := auth.AuthMiddleware(verifier)

	public := router.Group("/api")
	{
		public.GET("/gyms", h.Gym.ListGyms)
		public.GET("/gyms/search", h.Gym.SearchGyms)
		public.GET("/gyms/nearby", h.Gym.NearbyGyms)
		public.GET("/gyms/:id", h.Gym.GetGym)
		public.GET("/classes", h.Gym.ListClasses)
		public.GET("/classes/schedules", h.Gym.ListSchedules)
		public.GET("/workouts/exercises", h.Workout.ListExercises)
		public.GET("/workouts/public", h.Workout.ListPublic)
	}

	protected := router.Group("/api")
	protected.Use(authMiddleware)
	{
		protected.GET("/auth/me", h.User.Me)
		protected.PATCH("/auth/profile", h.User.UpdateProfile)
		protected.POST("/auth/onboarding", h.User.Onboarding)

		protected.GET("/classes/bookings", h.Booking.ListMyBookings)
		protected.POST("/classes/bookings", h.Booking.CreateBooking)
		protected.POST("/classes/bookings/:id/cancel", h.Booking.CancelBooking)

		protected.GET("/memberships", h.Membership.List)
		protected.GET("/memberships/active", h.Membership.Active)
		protected.GET("/memberships/active/qr", h.Membership.ActiveQR)
		protected.GET("/memberships/plans", h.Membership.Plans)
		protected.POST("/memberships/upgrade", h.Membership.Upgrade)
		protected.POST("/memberships/check-in", h.CheckIn.CheckIn)
		protected.POST("/memberships/check-out", h.CheckIn.CheckOut)
		protected.GET("/memberships/current-check-in", h.CheckIn.Current)
		protected.GET("/memberships/check-in-history", h.CheckIn.History)
		protected.GET("/memberships/check-in-stats", h.CheckIn.Stats)

		protected.GET("/workouts", h.Workout.List)
		protected.POST("/workouts", h.Workout.Create)
		protected.GET("/workouts/history", h.Workout.History)
		protected.GET("/workouts/stats", h.Workout.Stats)
		protected.GET("/workouts/:id", h.Workout.Get)
		protected.POST("/workouts/sessions", h.Workout.StartSession)
		protected.GET("/workouts/sessions/active", h.Workout.ActiveSession)
		protected.POST("/workouts/sessions/:id/log", h.Workout.LogSet)
		protected.POST("/workouts/sessions/:id/complete", h.Workout.CompleteSession)
		protected.POST("/workouts/sessions/:id/cancel", h.Workout.CancelSession)

		protected.GET("/goals", h.Goal.List)
		protected.POST("/goals", h.Goal.Create)
		protected.GET("/goals/:id", h.Goal.Get)
		protected.PATCH("/goals/:id", h.Goal.Update)
		protected.PATCH("/goals/:id/progress", h.Goal.UpdateProgress)
		protected.DELETE("/goals/:id", h.Goal.Delete)

		protected.GET("/metrics", h.Metric.List)
		protected.POST("/metrics", h.Metric.Create)
		protected.GET("/metrics/trends", h.Metric.Trends)
		protected.GET("/metrics/:id", h.Metric.Get)
		protected.PATCH("/metrics/:id", h.Metric.Update)
		protected.DELETE("/metrics/:id", h.Metric.Delete)
	}

	admin := router.Group("/api/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/schedules", h.Gym.CreateSchedule)
		admin.GET("/schedules/:id/bookings", h.Booking.ListScheduleBookings)
		admin.POST("/bookings/:id/attend", h.Booking.MarkAttended)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
