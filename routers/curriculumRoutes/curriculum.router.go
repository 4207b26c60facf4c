package curriculumRoutes

import (
	controllers "tcepreview/controllers/curriculum"
	validators "tcepreview/validators/curriculum"

	"github.com/gofiber/fiber/v2"
)

// SetupCurriculumRoutes sets up the taxonomy and mapping API
func SetupCurriculumRoutes(app *fiber.App) {
	apiGroup := app.Group("/_api")

	apiGroup.Get("/boards", controllers.GetBoards)
	apiGroup.Get("/grades", controllers.GetGrades)
	apiGroup.Get("/subjects", controllers.GetSubjects)
	apiGroup.Get("/chapters", controllers.GetChapters)
	apiGroup.Get("/subtopics", controllers.GetSubtopics)

	apiGroup.Get("/mapping", controllers.GetMapping)
	apiGroup.Post("/mapping", validators.SaveMapping(), controllers.SaveMapping)
}
