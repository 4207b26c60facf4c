package assetRoutes

import (
	controllers "tcepreview/controllers/assets"
	"tcepreview/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAssetRoutes sets up Excel ingestion and the social-preview image
func SetupAssetRoutes(app *fiber.App) {
	apiGroup := app.Group("/_api")

	apiGroup.Post("/assets/import", middleware.SessionMiddleware, controllers.ImportAssetIDs)

	// Public: crawlers fetch this without a session.
	apiGroup.Get("/og-image", controllers.OGImage)
}
