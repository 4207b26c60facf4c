package filterRoutes

import (
	controllers "tcepreview/controllers/filterflow"
	"tcepreview/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupFilterRoutes sets up the session-scoped curriculum filter flow
func SetupFilterRoutes(app *fiber.App) {
	filterGroup := app.Group("/_api/filter", middleware.SessionMiddleware)

	filterGroup.Post("/load", controllers.Load)
	filterGroup.Post("/select", controllers.Select)
	filterGroup.Post("/save", controllers.Save)
	filterGroup.Get("/state", controllers.State)
}
