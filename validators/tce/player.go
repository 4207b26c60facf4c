package tceValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PlayerData requires a non-blank assetId query parameter.
func PlayerData() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assetID := strings.TrimSpace(c.Query("assetId"))
		if assetID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing assetId"})
		}

		c.Locals("validatedAssetId", assetID)
		return c.Next()
	}
}

// BatchPlayerData requires a non-empty list of asset ids in the body.
func BatchPlayerData() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AssetIDs []string `json:"assetIds"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		ids := make([]string, 0, len(reqData.AssetIDs))
		for _, id := range reqData.AssetIDs {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
		if len(ids) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing assetIds"})
		}

		c.Locals("validatedAssetIds", ids)
		return c.Next()
	}
}
