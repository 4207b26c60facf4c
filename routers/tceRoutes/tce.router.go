package tceRoutes

import (
	controllers "tcepreview/controllers/tce"
	"tcepreview/middleware"
	validators "tcepreview/validators/tce"

	"github.com/gofiber/fiber/v2"
)

// SetupTceRoutes sets up the media-service and player bootstrap routes
func SetupTceRoutes(app *fiber.App) {
	apiGroup := app.Group("/_api")

	apiGroup.Get("/player-data", middleware.SessionMiddleware, validators.PlayerData(), controllers.GetPlayerData)
	apiGroup.Post("/player-data/batch", middleware.SessionMiddleware, validators.BatchPlayerData(), controllers.BatchPlayerData)

	apiGroup.Post("/player/loadplayer", middleware.SessionMiddleware, controllers.LoadPlayer)
	apiGroup.Get("/player/state", middleware.SessionMiddleware, controllers.PlayerState)
}
