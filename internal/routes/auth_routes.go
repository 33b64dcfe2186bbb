package routes

import (
	"database/sql"

	"github.com/go-chi/chi/v5"

	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/handlers"
	"authapi/internal/metrics"
	"authapi/internal/middleware"
	"authapi/internal/repository"
	"authapi/internal/services"
)

func RegisterAuthRoutes(router chi.Router, db *sql.DB, cfg *config.Config, mailer services.EmailSender, m *metrics.Registry) {
	tokens := auth.NewTokenIssuer(cfg.JWTSecret)
	authHandler := handlers.NewAuthHandler(
		repository.NewUserRepository(db),
		auth.NewBcryptHasher(),
		tokens,
		mailer,
		cfg,
	)
	authHandler.SetMetrics(m)

	router.Post("/register", authHandler.Register)
	router.Post("/login", authHandler.Login)
	router.Post("/forgot_password", authHandler.ForgotPassword)

	router.With(middleware.JWTAuth(tokens)).Get("/me", authHandler.Me)
}
