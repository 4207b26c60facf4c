package curriculumValidator

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// MappingRequest is the mapping-save body. Subtopic and the denormalized
// asset fields are optional; everything else must be present.
type MappingRequest struct {
	AssetID    string `json:"assetId" validate:"required"`
	GradeID    string `json:"gradeId" validate:"required"`
	SubjectID  string `json:"subjectId" validate:"required"`
	ChapterID  string `json:"chapterId" validate:"required"`
	SubtopicID string `json:"subtopicId"`
	CreatedBy  string `json:"createdBy" validate:"required"`
	Title      string `json:"title"`
	MimeType   string `json:"mimeType"`
	AssetType  string `json:"assetType"`
	SubType    string `json:"subType"`
}

// SaveMapping validates the mapping POST body before any write happens.
func SaveMapping() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(MappingRequest)

		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		if err := validate.Struct(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing fields"})
		}

		c.Locals("validatedMapping", reqData)
		return c.Next()
	}
}
