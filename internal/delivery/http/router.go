package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"confscheduler/internal/delivery/http/controllers"
	"confscheduler/internal/delivery/http/middleware"
	"confscheduler/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(schedulingController *controllers.SchedulingController, authController *controllers.AuthController, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Scheduling board
	mux.HandleFunc("GET /events/{eventID}/schedule", auth(schedulingController.GetSchedule))
	mux.HandleFunc("POST /events/{eventID}/schedule/preview", auth(schedulingController.Preview))
	mux.HandleFunc("POST /events/{eventID}/schedule/apply", auth(schedulingController.Apply))
	mux.HandleFunc("POST /events/{eventID}/sessions/{sessionID}/move", auth(schedulingController.Move))
	mux.HandleFunc("POST /events/{eventID}/sessions/{sessionID}/unschedule", auth(schedulingController.Unschedule))
	mux.HandleFunc("POST /events/{eventID}/schedule/cancel-move", auth(schedulingController.CancelMove))
	mux.HandleFunc("POST /events/{eventID}/schedule/undo", auth(schedulingController.Undo))
	mux.HandleFunc("POST /events/{eventID}/schedule/redo", auth(schedulingController.Redo))
	mux.HandleFunc("POST /events/{eventID}/schedule/reset-day", auth(schedulingController.ResetDay))
	mux.HandleFunc("GET /events/{eventID}/schedule/publish-status", auth(schedulingController.PublishStatus))
	mux.HandleFunc("POST /events/{eventID}/schedule/publish", auth(schedulingController.Publish))

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
