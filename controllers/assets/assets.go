package assetsController

import (
	"errors"
	"log"
	"path/filepath"

	"tcepreview/config"
	"tcepreview/utils"

	"github.com/gofiber/fiber/v2"
)

// ImportAssetIDs parses an uploaded book workbook into its ordered asset
// id list. When a grade is supplied the workbook is also dropped into that
// grade's azvasa directory so the next manifest build picks it up.
func ImportAssetIDs(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read upload"})
	}
	defer src.Close()

	assetIds, err := utils.ParseAssetIDs(src)
	if err != nil {
		if errors.Is(err, utils.ErrNoAssetIDs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no asset IDs found"})
		}
		log.Printf("Error parsing uploaded workbook %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse spreadsheet"})
	}

	if grade := c.FormValue("grade"); grade != "" {
		destDir := filepath.Join(config.AppConfig.PublicDir, "azvasa", grade)
		if _, err := utils.SaveUploadedFile(fileHeader, destDir); err != nil {
			log.Printf("Error storing workbook under azvasa/%s: %v", grade, err)
		}
	}

	return c.JSON(fiber.Map{
		"assetIds": assetIds,
		"count":    len(assetIds),
	})
}

// OGImage renders the social-preview PNG for an asset page.
func OGImage(c *fiber.Ctx) error {
	title := c.Query("title")
	grade := c.Query("grade")
	book := c.Query("book")

	png, err := utils.RenderOGImage(title, grade, book)
	if err != nil {
		log.Printf("Error rendering og image: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to render image"})
	}

	c.Set("Content-Type", "image/png")
	c.Set("Cache-Control", "public, max-age=86400, s-maxage=86400")
	return c.Send(png)
}
