package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/talentbridge/api/internal/auth"
	"github.com/talentbridge/api/internal/handlers"
	"github.com/talentbridge/api/internal/middleware"
	"github.com/talentbridge/api/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	superAdminEmail string,
) {
	// Rate limiting config for auth endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/verify/request", authHandler.RequestVerifyCode)
		r.Post("/auth/verify", authHandler.VerifyEmail)
		r.Post("/auth/password-reset/request", authHandler.RequestPasswordResetCode)
		r.Post("/auth/password-reset", authHandler.VerifyPasswordReset)
	})

	// Logout only clears the cookie, so it works for unverified users too
	router.Post("/auth/logout", authHandler.Logout)

	// Protected routes - verified session required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(tokenManager, userRepo))

		r.Get("/users/me", userHandler.Me)
		r.Put("/users/me", userHandler.UpdateMe)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/admin/users", adminHandler.ListUsers)
			r.Get("/admin/users/{id}", adminHandler.GetUser)
			r.Put("/admin/users/{id}", adminHandler.UpdateUser)
			r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
		})

		// Super-admin only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSuperAdmin(superAdminEmail))

			r.Put("/admin/users/{id}/admin", adminHandler.SetAdmin)
		})
	})
}
