package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"confscheduler/config"
	_ "confscheduler/docs"
	authadapter "confscheduler/internal/adapters/auth"
	"confscheduler/internal/adapters/email"
	httpdelivery "confscheduler/internal/delivery/http"
	"confscheduler/internal/delivery/http/controllers"
	"confscheduler/internal/delivery/http/middleware"
	"confscheduler/internal/repository/postgres"
	"confscheduler/internal/services"
)

// @title Conference Scheduler API
// @version 1.0
// @description Session auto-scheduling and manual scheduling board for conference events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	slotRepo := postgres.NewTimeSlotRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	}, logger)
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	issuer := authadapter.NewJWTIssuer(cfg.JWTSecret)
	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)

	notifier := services.NewHostNotifier(mailer, sessionRepo, logger)
	schedulingService := services.NewSchedulingService(eventRepo, venueRepo, slotRepo, sessionRepo, notifier, logger, 10*time.Second)
	authService := services.NewAuthService(userRepo, issuer, cfg.JWTExpiry)

	schedulingController := controllers.NewSchedulingController(logger, schedulingService)
	authController := controllers.NewAuthController(logger, authService)

	mux := httpdelivery.NewRouter(schedulingController, authController, verifier, logger)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
