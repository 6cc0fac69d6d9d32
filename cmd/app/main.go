package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/bodymetric"
	"fitclub/internal/booking"
	"fitclub/internal/checkin"
	"fitclub/internal/config"
	"fitclub/internal/db"
	"fitclub/internal/email"
	"fitclub/internal/events"
	"fitclub/internal/goal"
	"fitclub/internal/gym"
	"fitclub/internal/logger"
	"fitclub/internal/membership"
	"fitclub/internal/server"
	"fitclub/internal/user"
	"fitclub/internal/workout"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title FitClub API
// @version 1.0
// @description Fitness club backend: gyms, class bookings, memberships, check-ins, workouts, goals and body metrics.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting FitClub application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)
	if err != nil {
		logger.Fatalf("Failed to create token verifier: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(email.Config{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUsername,
		SMTPPass: cfg.SMTPPassword,
	}, rdb)
	defer emailService.Close()

	publisher := events.New(cfg.RabbitMQURL, cfg.EventsExchange)
	defer publisher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)
	go watchQueue(ctx, emailService)

	userService := user.NewService(user.NewRepository(database))
	membershipService := membership.NewService(membership.NewRepository(database), publisher)
	notifier := booking.NewNotifier(emailService, userService, publisher)

	handlers := server.Handlers{
		User:       user.NewHandler(userService),
		Gym:        gym.NewHandler(gym.NewService(gym.NewRepository(database))),
		Booking:    booking.NewHandler(booking.NewService(booking.NewRepository(database), notifier)),
		Membership: membership.NewHandler(membershipService),
		CheckIn:    checkin.NewHandler(checkin.NewService(checkin.NewRepository(database), membershipService, publisher)),
		Workout:    workout.NewHandler(workout.NewService(workout.NewRepository(database), publisher)),
		Goal:       goal.NewHandler(goal.NewService(goal.NewRepository(database), publisher)),
		Metric:     bodymetric.NewHandler(bodymetric.NewService(bodymetric.NewRepository(database))),
	}

	srv := server.New(cfg, verifier, handlers,
		server.Check{Name: "postgres", Probe: database.PingContext},
		server.Check{Name: "redis", Probe: emailService.Ping},
	)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}

// watchQueue keeps the e-mail queue gauge current.
func watchQueue(ctx context.Context, svc *email.Service) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.QueueLength(ctx)
		}
	}
}
