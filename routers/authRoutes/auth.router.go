package authRoutes

import (
	controllers "tcepreview/controllers/authController"
	"tcepreview/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up the OAuth callback and session routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Get("/callback", controllers.OAuthCallback)
	authGroup.Post("/logout", controllers.Logout)
	authGroup.Get("/me", middleware.SessionMiddleware, controllers.Me)
}
